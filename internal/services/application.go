package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

type ApplicationInput struct {
	VolunteerRole   types.VolunteerRole
	CoverLetter     string
	Skills          []string
	ExperienceYears *int
	PortfolioURL    string
	LinkedinURL     string
	GithubURL       string
}

// CreateApplication records a volunteer's request to join an approved
// project and notifies the project owner.
func CreateApplication(actor middleware.AuthenticatedUser, projectID uuid.UUID, input ApplicationInput) (*models.Application, *apperrors.AppError) {
	if actor.Role != types.RoleVolunteer {
		return nil, apperrors.Forbidden("only volunteers can apply to projects")
	}

	if !input.VolunteerRole.IsValid() {
		return nil, apperrors.NotEligible("invalid volunteer role %q", input.VolunteerRole)
	}

	if input.ExperienceYears != nil && (*input.ExperienceYears < 0 || *input.ExperienceYears > 50) {
		return nil, apperrors.NotEligible("experience_years must be between 0 and 50")
	}

	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	if project.Status != types.ProjectApproved {
		return nil, apperrors.NotEligible("can only apply to approved projects")
	}

	var existing models.Application

	err := db.DB.Where("project_id = ? AND volunteer_id = ?", projectID, actor.ID).
		First(&existing).Error

	if err == nil {
		return nil, apperrors.Conflict("you have already applied to this project")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing application: %v", err)
		return nil, apperrors.Internal()
	}

	var skills datatypes.JSON

	if len(input.Skills) > 0 {
		raw, err := json.Marshal(input.Skills)
		if err != nil {
			return nil, apperrors.NotEligible("invalid skills list")
		}
		skills = datatypes.JSON(raw)
	}

	application := models.Application{
		ProjectID:       projectID,
		VolunteerID:     actor.ID,
		VolunteerRole:   input.VolunteerRole,
		CoverLetter:     input.CoverLetter,
		Skills:          skills,
		ExperienceYears: input.ExperienceYears,
		PortfolioURL:    input.PortfolioURL,
		LinkedinURL:     input.LinkedinURL,
		GithubURL:       input.GithubURL,
		Status:          types.ApplicationPending,
	}

	if err := db.DB.Create(&application).Error; err != nil {
		// The unique index closes the race the read-then-create check leaves open.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("you have already applied to this project")
		}
		log.Printf("Failed to create application: %v", err)
		return nil, apperrors.Internal()
	}

	Dispatch(project.OwnerID, types.NotifyApplicationReceived,
		"New Application Received",
		fmt.Sprintf("A volunteer has applied to your project '%s'.", project.Title),
		fmt.Sprintf("/projects/%s/applications", project.ID))

	return &application, nil
}

// HasActiveReviewerPermission reports whether the user currently holds an
// ACTIVE delegated grant on the project.
func HasActiveReviewerPermission(projectID, userID uuid.UUID) bool {
	var count int64

	err := db.DB.Model(&models.ReviewerPermission{}).
		Where("project_id = ? AND reviewer_id = ? AND status = ?",
			projectID, userID, types.PermissionActive).
		Count(&count).Error

	if err != nil {
		log.Printf("Failed to check reviewer permission: %v", err)
		return false
	}

	return count > 0
}

// canReviewApplications is the delegated-authority rule: authority flows from
// project ownership, the admin role, or an explicit active grant.
func canReviewApplications(actor middleware.AuthenticatedUser, project *models.Project) bool {
	if actor.Role == types.RoleAdmin {
		return true
	}
	if project.OwnerID == actor.ID {
		return true
	}
	return HasActiveReviewerPermission(project.ID, actor.ID)
}

// UpdateApplicationStatus decides a pending application. The transition is a
// compare-and-set guarded on status=PENDING so two concurrent reviewers
// cannot both win; the loser sees InvalidState.
func UpdateApplicationStatus(actor middleware.AuthenticatedUser, applicationID uuid.UUID, decision types.ApplicationStatus) (*models.Application, *apperrors.AppError) {
	if !decision.Decided() {
		return nil, apperrors.NotEligible("status must be APPROVED or REJECTED")
	}

	var application models.Application

	if err := db.DB.Where("id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		log.Printf("Failed to load application %s: %v", applicationID, err)
		return nil, apperrors.Internal()
	}

	var project models.Project

	if err := db.DB.Where("id = ?", application.ProjectID).First(&project).Error; err != nil {
		log.Printf("Failed to load project %s: %v", application.ProjectID, err)
		return nil, apperrors.Internal()
	}

	if !canReviewApplications(actor, &project) {
		return nil, apperrors.Forbidden("only the project owner or a delegated reviewer can decide applications")
	}

	result := db.DB.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, types.ApplicationPending).
		Update("status", decision)

	if result.Error != nil {
		log.Printf("Failed to update application %s: %v", applicationID, result.Error)
		return nil, apperrors.Internal()
	}

	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("application was already decided")
	}

	application.Status = decision

	switch decision {
	case types.ApplicationApproved:
		Dispatch(application.VolunteerID, types.NotifyApplicationApproved,
			"Application Approved",
			fmt.Sprintf("Your application to '%s' has been approved.", project.Title),
			fmt.Sprintf("/projects/%s", project.ID))
	case types.ApplicationRejected:
		Dispatch(application.VolunteerID, types.NotifyApplicationRejected,
			"Application Rejected",
			fmt.Sprintf("Your application to '%s' has been rejected.", project.Title),
			fmt.Sprintf("/projects/%s", project.ID))
	}

	return &application, nil
}

func ListApplicationsForProject(actor middleware.AuthenticatedUser, projectID uuid.UUID, page, limit int) ([]models.Application, int64, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	if !canReviewApplications(actor, &project) {
		return nil, 0, apperrors.Forbidden("you can only view applications for projects you review")
	}

	var applications []models.Application

	err := db.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&applications).Error

	if err != nil {
		log.Printf("Failed to list applications for project %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	var total int64

	if err := db.DB.Model(&models.Application{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		log.Printf("Failed to count applications for project %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	return applications, total, nil
}

func ListApplicationsForVolunteer(volunteerID uuid.UUID, page, limit int) ([]models.Application, int64, error) {
	var applications []models.Application

	err := db.DB.Where("volunteer_id = ?", volunteerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&applications).Error

	if err != nil {
		return nil, 0, err
	}

	var total int64

	if err := db.DB.Model(&models.Application{}).Where("volunteer_id = ?", volunteerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// DeleteApplication withdraws a pending application. Decided applications are
// part of the review record and cannot be withdrawn.
func DeleteApplication(actor middleware.AuthenticatedUser, applicationID uuid.UUID) *apperrors.AppError {
	var application models.Application

	if err := db.DB.Where("id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("application not found")
		}
		log.Printf("Failed to load application %s: %v", applicationID, err)
		return apperrors.Internal()
	}

	if application.VolunteerID != actor.ID && actor.Role != types.RoleAdmin {
		return apperrors.Forbidden("you can only withdraw your own applications")
	}

	if application.Status != types.ApplicationPending {
		return apperrors.InvalidState("only pending applications can be withdrawn")
	}

	if err := db.DB.Delete(&application).Error; err != nil {
		log.Printf("Failed to delete application %s: %v", applicationID, err)
		return apperrors.Internal()
	}

	return nil
}
