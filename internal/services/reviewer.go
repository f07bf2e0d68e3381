package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

func loadOwnedProject(actor middleware.AuthenticatedUser, projectID uuid.UUID) (*models.Project, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	if project.OwnerID != actor.ID {
		return nil, apperrors.Forbidden("only the project owner can manage reviewer permissions")
	}

	return &project, nil
}

// GrantReviewer delegates application-review authority to an approved
// applicant. Grants are append-only: a duplicate active grant is a conflict,
// and revoked grants stay on record.
func GrantReviewer(actor middleware.AuthenticatedUser, projectID, reviewerID uuid.UUID) (*models.ReviewerPermission, *apperrors.AppError) {
	project, appErr := loadOwnedProject(actor, projectID)

	if appErr != nil {
		return nil, appErr
	}

	var approved int64

	err := db.DB.Model(&models.Application{}).
		Where("project_id = ? AND volunteer_id = ? AND status = ?",
			projectID, reviewerID, types.ApplicationApproved).
		Count(&approved).Error

	if err != nil {
		log.Printf("Failed to check applications for reviewer %s: %v", reviewerID, err)
		return nil, apperrors.Internal()
	}

	if approved == 0 {
		return nil, apperrors.NotEligible("reviewer must have an approved application on this project")
	}

	var active int64

	err = db.DB.Model(&models.ReviewerPermission{}).
		Where("project_id = ? AND reviewer_id = ? AND status = ?",
			projectID, reviewerID, types.PermissionActive).
		Count(&active).Error

	if err != nil {
		log.Printf("Failed to check active grants for reviewer %s: %v", reviewerID, err)
		return nil, apperrors.Internal()
	}

	if active > 0 {
		return nil, apperrors.Conflict("reviewer already holds an active permission on this project")
	}

	permission := models.ReviewerPermission{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		GrantedBy:  actor.ID,
		Status:     types.PermissionActive,
	}

	if err := db.DB.Create(&permission).Error; err != nil {
		// The partial unique index on (project_id, reviewer_id) for ACTIVE
		// rows catches grants racing past the count above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("reviewer already holds an active permission on this project")
		}
		log.Printf("Failed to create reviewer permission: %v", err)
		return nil, apperrors.Internal()
	}

	Dispatch(reviewerID, types.NotifyReviewerGranted,
		"Reviewer Access Granted",
		fmt.Sprintf("You can now review applications for '%s'.", project.Title),
		fmt.Sprintf("/projects/%s/applications", project.ID))

	return &permission, nil
}

// RevokeReviewer retires the active grant for (project, reviewer). The row is
// kept with status=REVOKED as the audit trail; the compare-and-set on
// status=ACTIVE makes a concurrent double-revoke lose with NotFound.
func RevokeReviewer(actor middleware.AuthenticatedUser, projectID, reviewerID uuid.UUID) *apperrors.AppError {
	project, appErr := loadOwnedProject(actor, projectID)

	if appErr != nil {
		return appErr
	}

	now := time.Now().UTC()

	result := db.DB.Model(&models.ReviewerPermission{}).
		Where("project_id = ? AND reviewer_id = ? AND status = ?",
			projectID, reviewerID, types.PermissionActive).
		Updates(map[string]interface{}{
			"status":     types.PermissionRevoked,
			"revoked_at": now,
		})

	if result.Error != nil {
		log.Printf("Failed to revoke reviewer permission: %v", result.Error)
		return apperrors.Internal()
	}

	if result.RowsAffected == 0 {
		return apperrors.NotFound("no active reviewer permission for this project and reviewer")
	}

	Dispatch(reviewerID, types.NotifyReviewerRevoked,
		"Reviewer Access Revoked",
		fmt.Sprintf("Your reviewer access for '%s' has been revoked.", project.Title),
		fmt.Sprintf("/projects/%s", project.ID))

	return nil
}

// ListReviewers returns the project's grants, active only unless
// includeRevoked is set. Revoked grants are never deleted and must appear
// when asked for.
func ListReviewers(projectID uuid.UUID, includeRevoked bool) ([]models.ReviewerPermission, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	query := db.DB.Where("project_id = ?", projectID)

	if !includeRevoked {
		query = query.Where("status = ?", types.PermissionActive)
	}

	var permissions []models.ReviewerPermission

	if err := query.Order("created_at DESC").Find(&permissions).Error; err != nil {
		log.Printf("Failed to list reviewer permissions for %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	return permissions, nil
}

// ListApprovedApplicants returns the approved applicants on a project. The
// caller subtracts current active reviewers to build the eligible candidate
// set for new grants.
func ListApprovedApplicants(projectID uuid.UUID) ([]models.Application, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	var applications []models.Application

	err := db.DB.Where("project_id = ? AND status = ?", projectID, types.ApplicationApproved).
		Order("created_at DESC").
		Find(&applications).Error

	if err != nil {
		log.Printf("Failed to list approved applicants for %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	return applications, nil
}
