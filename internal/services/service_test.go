package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Serialize access so concurrent writes cannot hit sqlite busy errors.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
		db.DB = nil
	})
}

func createTestUser(t *testing.T, role types.UserRole) models.User {
	t.Helper()

	user := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

func asActor(user models.User) middleware.AuthenticatedUser {
	return middleware.AuthenticatedUser{ID: user.ID, Email: user.Email, Role: user.Role}
}

func createTestProject(t *testing.T, owner models.User, status types.ProjectStatus) models.Project {
	t.Helper()

	project := models.Project{
		OwnerID:     owner.ID,
		Title:       "Community Food Bank Portal",
		Description: "A portal for coordinating food bank volunteers.",
		ProjectType: types.ProjectTypeWebApp,
		Status:      status,
	}
	require.NoError(t, db.DB.Create(&project).Error)

	return project
}

func createTestApplication(t *testing.T, project models.Project, volunteer models.User, status types.ApplicationStatus) models.Application {
	t.Helper()

	application := models.Application{
		ProjectID:     project.ID,
		VolunteerID:   volunteer.ID,
		VolunteerRole: types.VolunteerBackend,
		CoverLetter:   "I would like to help.",
		Status:        status,
	}
	require.NoError(t, db.DB.Create(&application).Error)

	return application
}

func notificationsFor(t *testing.T, recipientID uuid.UUID) []models.Notification {
	t.Helper()

	var notifications []models.Notification
	require.NoError(t, db.DB.Where("recipient_id = ?", recipientID).Order("created_at ASC").Find(&notifications).Error)

	return notifications
}
