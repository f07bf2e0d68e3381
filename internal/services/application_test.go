package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

func TestCreateApplication(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	years := 3
	input := ApplicationInput{
		VolunteerRole:   types.VolunteerBackend,
		CoverLetter:     "Happy to help with the backend.",
		Skills:          []string{"go", "postgres"},
		ExperienceYears: &years,
	}

	application, appErr := CreateApplication(asActor(volunteer), project.ID, input)
	require.Nil(t, appErr)
	assert.Equal(t, types.ApplicationPending, application.Status)
	assert.Equal(t, volunteer.ID, application.VolunteerID)

	// The project owner is notified about the new application.
	notifications := notificationsFor(t, owner.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, types.NotifyApplicationReceived, notifications[0].Type)
}

func TestCreateApplicationRequiresVolunteerRole(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	project := createTestProject(t, owner, types.ProjectApproved)

	_, appErr := CreateApplication(asActor(owner), project.ID, ApplicationInput{
		VolunteerRole: types.VolunteerBackend,
		CoverLetter:   "x",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestCreateApplicationProjectNotApproved(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)

	for _, status := range []types.ProjectStatus{types.ProjectPending, types.ProjectRejected} {
		project := createTestProject(t, owner, status)

		_, appErr := CreateApplication(asActor(volunteer), project.ID, ApplicationInput{
			VolunteerRole: types.VolunteerBackend,
			CoverLetter:   "x",
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrNotEligible, appErr.Code)
	}
}

func TestCreateApplicationProjectNotFound(t *testing.T) {
	setupTestDB(t)

	volunteer := createTestUser(t, types.RoleVolunteer)

	_, appErr := CreateApplication(asActor(volunteer), uuid.New(), ApplicationInput{
		VolunteerRole: types.VolunteerBackend,
		CoverLetter:   "x",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCreateApplicationDuplicate(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	input := ApplicationInput{
		VolunteerRole: types.VolunteerBackend,
		CoverLetter:   "x",
	}

	_, appErr := CreateApplication(asActor(volunteer), project.ID, input)
	require.Nil(t, appErr)

	_, appErr = CreateApplication(asActor(volunteer), project.ID, input)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreateApplicationExperienceBounds(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	for _, years := range []int{-1, 51} {
		y := years
		_, appErr := CreateApplication(asActor(volunteer), project.ID, ApplicationInput{
			VolunteerRole:   types.VolunteerBackend,
			CoverLetter:     "x",
			ExperienceYears: &y,
		})
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrNotEligible, appErr.Code)
	}
}

func TestUpdateApplicationStatusByOwner(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationPending)

	decided, appErr := UpdateApplicationStatus(asActor(owner), application.ID, types.ApplicationApproved)
	require.Nil(t, appErr)
	assert.Equal(t, types.ApplicationApproved, decided.Status)

	notifications := notificationsFor(t, volunteer.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, types.NotifyApplicationApproved, notifications[0].Type)
}

func TestUpdateApplicationStatusByDelegatedReviewer(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	reviewer := createTestUser(t, types.RoleVolunteer)
	applicant := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	createTestApplication(t, project, reviewer, types.ApplicationApproved)
	application := createTestApplication(t, project, applicant, types.ApplicationPending)

	_, appErr := GrantReviewer(asActor(owner), project.ID, reviewer.ID)
	require.Nil(t, appErr)

	decided, appErr := UpdateApplicationStatus(asActor(reviewer), application.ID, types.ApplicationRejected)
	require.Nil(t, appErr)
	assert.Equal(t, types.ApplicationRejected, decided.Status)
}

func TestUpdateApplicationStatusForbiddenForOutsiders(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	outsider := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationPending)

	_, appErr := UpdateApplicationStatus(asActor(outsider), application.ID, types.ApplicationApproved)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestUpdateApplicationStatusRevokedReviewerForbidden(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	reviewer := createTestUser(t, types.RoleVolunteer)
	applicant := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	createTestApplication(t, project, reviewer, types.ApplicationApproved)
	application := createTestApplication(t, project, applicant, types.ApplicationPending)

	_, appErr := GrantReviewer(asActor(owner), project.ID, reviewer.ID)
	require.Nil(t, appErr)
	require.Nil(t, RevokeReviewer(asActor(owner), project.ID, reviewer.ID))

	_, appErr = UpdateApplicationStatus(asActor(reviewer), application.ID, types.ApplicationApproved)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestUpdateApplicationStatusAlreadyDecided(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationApproved)

	_, appErr := UpdateApplicationStatus(asActor(owner), application.ID, types.ApplicationRejected)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)

	// The earlier decision stands.
	var reloaded models.Application
	require.NoError(t, db.DB.First(&reloaded, "id = ?", application.ID).Error)
	assert.Equal(t, types.ApplicationApproved, reloaded.Status)
}

func TestConcurrentApplicationDecisionsSingleWinner(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationPending)

	decisions := []types.ApplicationStatus{types.ApplicationApproved, types.ApplicationRejected}

	var wg sync.WaitGroup
	results := make([]*apperrors.AppError, len(decisions))

	for i, decision := range decisions {
		wg.Add(1)
		go func(i int, decision types.ApplicationStatus) {
			defer wg.Done()
			_, results[i] = UpdateApplicationStatus(asActor(owner), application.ID, decision)
		}(i, decision)
	}
	wg.Wait()

	var wins, losses int
	for _, appErr := range results {
		if appErr == nil {
			wins++
		} else {
			assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	var reloaded models.Application
	require.NoError(t, db.DB.First(&reloaded, "id = ?", application.ID).Error)
	assert.True(t, reloaded.Status.Decided())
}

func TestUpdateApplicationStatusRejectsPendingDecision(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationPending)

	_, appErr := UpdateApplicationStatus(asActor(owner), application.ID, types.ApplicationPending)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotEligible, appErr.Code)
}

func TestListApplicationsForProjectGated(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	outsider := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	createTestApplication(t, project, volunteer, types.ApplicationPending)

	_, _, appErr := ListApplicationsForProject(asActor(outsider), project.ID, 1, 50)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	applications, total, appErr := ListApplicationsForProject(asActor(owner), project.ID, 1, 50)
	require.Nil(t, appErr)
	assert.Len(t, applications, 1)
	assert.EqualValues(t, 1, total)
}

func TestDeleteApplication(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	outsider := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationPending)

	appErr := DeleteApplication(asActor(outsider), application.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	require.Nil(t, DeleteApplication(asActor(volunteer), application.ID))

	var count int64
	require.NoError(t, db.DB.Model(&models.Application{}).Where("id = ?", application.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteApplicationDecidedIsInvalidState(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	volunteer := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)
	application := createTestApplication(t, project, volunteer, types.ApplicationApproved)

	appErr := DeleteApplication(asActor(volunteer), application.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidState, appErr.Code)
}
