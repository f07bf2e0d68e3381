package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/auth"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

type APITestSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	auth.SetJWTSecret("integration-test-secret")

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	s.Require().NoError(db.MigrateDatabase())

	s.server = httptest.NewServer(NewRouter())
}

func (s *APITestSuite) TearDownSuite() {
	s.server.Close()

	if db.DB != nil {
		if sqlDB, err := db.DB.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = nil
	}
}

func (s *APITestSuite) SetupTest() {
	for _, table := range []string{
		"replies", "comments", "threads",
		"notifications", "tasks", "open_positions",
		"reviewer_permissions", "applications", "projects", "users",
	} {
		s.Require().NoError(db.DB.Exec("DELETE FROM " + table).Error)
	}
}

func (s *APITestSuite) request(method, path, token string, body any) *http.Response {
	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)

	return resp
}

func (s *APITestSuite) decode(resp *http.Response, target any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

// registerUser goes through the public endpoint; createAdmin writes directly
// since admin accounts cannot be self-registered.
func (s *APITestSuite) registerUser(role types.UserRole) (id uuid.UUID, token string) {
	resp := s.request(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     uuid.NewString() + "@example.com",
		"password":  "password123",
		"firstname": "Test",
		"lastname":  "User",
		"role":      role,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var body struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		JWT string `json:"jwt"`
	}
	s.decode(resp, &body)
	s.Require().NotEmpty(body.JWT)

	return body.User.ID, body.JWT
}

func (s *APITestSuite) createAdmin() (uuid.UUID, string) {
	admin := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Site",
		LastName:     "Admin",
		Role:         types.RoleAdmin,
		IsActive:     true,
	}
	s.Require().NoError(db.DB.Create(&admin).Error)

	token, err := auth.GenerateJWT(admin.ID, admin.Email, admin.Role)
	s.Require().NoError(err)

	return admin.ID, token
}

func (s *APITestSuite) createProject(token string) uuid.UUID {
	resp := s.request(http.MethodPost, "/api/projects", token, gin.H{
		"title":        "Community Garden Tracker",
		"description":  "Track plots and volunteers for the garden.",
		"project_type": types.ProjectTypeWebApp,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var body struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	s.decode(resp, &body)

	return body.Data.ID
}

func (s *APITestSuite) TestHealth() {
	resp := s.request(http.MethodGet, "/api/health", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APITestSuite) TestRegisterRejectsAdminRole() {
	resp := s.request(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "admin@example.com",
		"password":  "password123",
		"firstname": "Evil",
		"lastname":  "Admin",
		"role":      types.RoleAdmin,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestLoginAndMe() {
	email := uuid.NewString() + "@example.com"

	resp := s.request(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     email,
		"password":  "password123",
		"firstname": "Test",
		"lastname":  "User",
		"role":      types.RoleVolunteer,
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var login struct {
		JWT string `json:"jwt"`
	}
	s.decode(resp, &login)

	resp = s.request(http.MethodGet, "/api/auth/me", login.JWT, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	s.decode(resp, &me)
	s.Equal(email, me.User.Email)
}

func (s *APITestSuite) TestProjectApprovalFlow() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	_, adminToken := s.createAdmin()

	projectID := s.createProject(requesterToken)

	// Pending projects are invisible to the public.
	resp := s.request(http.MethodGet, fmt.Sprintf("/api/projects/%s", projectID), "", nil)
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// Only admins may decide.
	resp = s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), requesterToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), adminToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// A second decision conflicts.
	resp = s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/reject", projectID), adminToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// Approved projects are public.
	resp = s.request(http.MethodGet, fmt.Sprintf("/api/projects/%s", projectID), "", nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The owner received a notification.
	resp = s.request(http.MethodGet, "/api/notifications/unread/count", requesterToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var count struct {
		Count int64 `json:"count"`
	}
	s.decode(resp, &count)
	s.EqualValues(1, count.Count)
}

func (s *APITestSuite) TestApplicationFlow() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	volunteerID, volunteerToken := s.registerUser(types.RoleVolunteer)
	_, adminToken := s.createAdmin()

	projectID := s.createProject(requesterToken)

	applyPath := fmt.Sprintf("/api/projects/%s/applications", projectID)
	application := gin.H{
		"volunteer_role": types.VolunteerBackend,
		"cover_letter":   "I want to help.",
		"skills":         []string{"go"},
	}

	// Applying before approval is rejected.
	resp := s.request(http.MethodPost, applyPath, volunteerToken, application)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), adminToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPost, applyPath, volunteerToken, application)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	s.decode(resp, &created)

	// Duplicate applications conflict.
	resp = s.request(http.MethodPost, applyPath, volunteerToken, application)
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// Another volunteer cannot decide.
	_, otherToken := s.registerUser(types.RoleVolunteer)
	decidePath := fmt.Sprintf("/api/applications/%s/approve", created.Data.ID)

	resp = s.request(http.MethodPut, decidePath, otherToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// The owner approves.
	resp = s.request(http.MethodPut, decidePath, requesterToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// Deciding again conflicts.
	resp = s.request(http.MethodPut, fmt.Sprintf("/api/applications/%s/reject", created.Data.ID), requesterToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// The approved volunteer can now be granted reviewer access.
	resp = s.request(http.MethodPost, fmt.Sprintf("/api/projects/%s/reviewers", projectID), requesterToken, gin.H{
		"reviewer_id": volunteerID,
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// And revoked.
	resp = s.request(http.MethodDelete, fmt.Sprintf("/api/projects/%s/reviewers/%s", projectID, volunteerID), requesterToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// Revoking twice is a 404.
	resp = s.request(http.MethodDelete, fmt.Sprintf("/api/projects/%s/reviewers/%s", projectID, volunteerID), requesterToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestNotificationStream() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	_, adminToken := s.createAdmin()

	projectID := s.createProject(requesterToken)

	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/ws"
	header := http.Header{"Authorization": []string{"Bearer " + requesterToken}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))

	var welcome map[string]string
	s.Require().NoError(conn.ReadJSON(&welcome))
	s.Equal("connected", welcome["type"])

	// Approving the project pushes the notification to the live stream.
	resp := s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), adminToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var frame struct {
		Type types.NotificationType `json:"type"`
	}
	s.Require().NoError(conn.ReadJSON(&frame))
	s.Equal(types.NotifyProjectApproved, frame.Type)

	// The pushed notification is also persisted for later reconciliation.
	resp = s.request(http.MethodGet, "/api/notifications/unread", requesterToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var unread struct {
		Data []models.Notification `json:"data"`
	}
	s.decode(resp, &unread)
	s.Len(unread.Data, 1)
}

func (s *APITestSuite) TestNotificationMarkRead() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	_, adminToken := s.createAdmin()

	projectID := s.createProject(requesterToken)
	resp := s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), adminToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/notifications", requesterToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var list struct {
		Data []models.Notification `json:"data"`
	}
	s.decode(resp, &list)
	s.Require().Len(list.Data, 1)

	resp = s.request(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", list.Data[0].ID), requesterToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/notifications/unread/count", requesterToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var count struct {
		Count int64 `json:"count"`
	}
	s.decode(resp, &count)
	s.Zero(count.Count)

	// Another user cannot mark it read.
	_, otherToken := s.registerUser(types.RoleVolunteer)
	resp = s.request(http.MethodPatch, fmt.Sprintf("/api/notifications/%s/read", list.Data[0].ID), otherToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestTaskFlow() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	_, adminToken := s.createAdmin()

	projectID := s.createProject(requesterToken)
	resp := s.request(http.MethodPut, fmt.Sprintf("/api/projects/%s/approve", projectID), adminToken, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	tasksPath := fmt.Sprintf("/api/projects/%s/tasks", projectID)

	resp = s.request(http.MethodPost, tasksPath, requesterToken, gin.H{
		"title": "Prepare launch checklist",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID     uuid.UUID        `json:"id"`
			Status types.TaskStatus `json:"status"`
		} `json:"data"`
	}
	s.decode(resp, &created)
	s.Equal(types.TaskTodo, created.Data.Status)

	taskPath := fmt.Sprintf("%s/%s", tasksPath, created.Data.ID)

	// Completing a TODO task skips IN_PROGRESS and is rejected.
	resp = s.request(http.MethodPut, taskPath, requesterToken, gin.H{
		"status": types.TaskCompleted,
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = s.request(http.MethodPut, taskPath, requesterToken, gin.H{
		"status": types.TaskInProgress,
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPut, taskPath, requesterToken, gin.H{
		"status": types.TaskCompleted,
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodGet, tasksPath, requesterToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var list struct {
		Data []models.Task `json:"data"`
	}
	s.decode(resp, &list)
	s.Require().Len(list.Data, 1)
	s.Equal(types.TaskCompleted, list.Data[0].Status)
}

func (s *APITestSuite) TestDiscussionThreadFlow() {
	_, requesterToken := s.registerUser(types.RoleRequester)
	volunteerID, volunteerToken := s.registerUser(types.RoleVolunteer)

	projectID := s.createProject(requesterToken)

	// Creating a thread requires a logged-in author.
	threadsPath := fmt.Sprintf("/api/projects/%s/threads", projectID)
	resp := s.request(http.MethodPost, threadsPath, "", gin.H{"title": "Kickoff"})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.request(http.MethodPost, threadsPath, volunteerToken, gin.H{
		"title": "Kickoff",
		"body":  "When do we start?",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID       uuid.UUID `json:"id"`
			AuthorID uuid.UUID `json:"author_id"`
		} `json:"data"`
	}
	s.decode(resp, &created)
	s.Equal(volunteerID, created.Data.AuthorID)

	// Anyone can read the thread list.
	resp = s.request(http.MethodGet, threadsPath, "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var list struct {
		Data []models.Thread `json:"data"`
	}
	s.decode(resp, &list)
	s.Require().Len(list.Data, 1)

	commentsPath := fmt.Sprintf("/api/threads/%s/comments", created.Data.ID)
	resp = s.request(http.MethodPost, commentsPath, requesterToken, gin.H{
		"body": "First sync is on Monday.",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var comment struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	s.decode(resp, &comment)

	// A reply echoing a different parent is rejected.
	repliesPath := fmt.Sprintf("/api/comments/%s/replies", comment.Data.ID)
	resp = s.request(http.MethodPost, repliesPath, volunteerToken, gin.H{
		"body":      "Thanks!",
		"parent_id": uuid.New(),
	})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.request(http.MethodPost, repliesPath, volunteerToken, gin.H{
		"body":      "Thanks!",
		"parent_id": comment.Data.ID,
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// The thread detail carries the comment tree, readable anonymously.
	resp = s.request(http.MethodGet, fmt.Sprintf("/api/threads/%s", created.Data.ID), "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var detail struct {
		Data models.Thread `json:"data"`
	}
	s.decode(resp, &detail)
	s.Require().Len(detail.Data.Comments, 1)
	s.Len(detail.Data.Comments[0].Replies, 1)

	// Only the author may edit a comment.
	resp = s.request(http.MethodPatch, fmt.Sprintf("/api/comments/%s", comment.Data.ID), volunteerToken, gin.H{
		"body": "Hijacked",
	})
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *APITestSuite) TestUnauthenticatedAccess() {
	resp := s.request(http.MethodGet, "/api/notifications", "", nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/projects", "", gin.H{
		"title":        "x",
		"description":  "x",
		"project_type": types.ProjectTypeWebApp,
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
