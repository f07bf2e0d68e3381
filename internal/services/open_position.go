package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

type OpenPositionInput struct {
	Title       string
	Description string
	Role        types.VolunteerRole
	IsActive    *bool
}

// canManagePositions mirrors the delegation rule used for application review:
// owner, admin, or an active delegated reviewer.
func canManagePositions(actor middleware.AuthenticatedUser, project *models.Project) bool {
	if actor.Role == types.RoleAdmin || project.OwnerID == actor.ID {
		return true
	}
	return HasActiveReviewerPermission(project.ID, actor.ID)
}

func ListOpenPositions(projectID uuid.UUID) ([]models.OpenPosition, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	var positions []models.OpenPosition

	err := db.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&positions).Error

	if err != nil {
		log.Printf("Failed to list open positions for %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	return positions, nil
}

func CreateOpenPosition(actor middleware.AuthenticatedUser, projectID uuid.UUID, input OpenPositionInput) (*models.OpenPosition, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	if !canManagePositions(actor, &project) {
		return nil, apperrors.Forbidden("not enough permissions to manage open positions")
	}

	if !input.Role.IsValid() {
		return nil, apperrors.NotEligible("invalid volunteer role %q", input.Role)
	}

	position := models.OpenPosition{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Role:        input.Role,
		IsActive:    true,
	}

	if err := db.DB.Create(&position).Error; err != nil {
		log.Printf("Failed to create open position: %v", err)
		return nil, apperrors.Internal()
	}

	return &position, nil
}

func UpdateOpenPosition(actor middleware.AuthenticatedUser, positionID uuid.UUID, input OpenPositionInput) (*models.OpenPosition, *apperrors.AppError) {
	var position models.OpenPosition

	if err := db.DB.Where("id = ?", positionID).First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("open position not found")
		}
		log.Printf("Failed to load open position %s: %v", positionID, err)
		return nil, apperrors.Internal()
	}

	var project models.Project

	if err := db.DB.Where("id = ?", position.ProjectID).First(&project).Error; err != nil {
		log.Printf("Failed to load project %s: %v", position.ProjectID, err)
		return nil, apperrors.Internal()
	}

	if !canManagePositions(actor, &project) {
		return nil, apperrors.Forbidden("not enough permissions to manage open positions")
	}

	if !input.Role.IsValid() {
		return nil, apperrors.NotEligible("invalid volunteer role %q", input.Role)
	}

	position.Title = input.Title
	position.Description = input.Description
	position.Role = input.Role

	if input.IsActive != nil {
		position.IsActive = *input.IsActive
	}

	if err := db.DB.Save(&position).Error; err != nil {
		log.Printf("Failed to update open position %s: %v", positionID, err)
		return nil, apperrors.Internal()
	}

	return &position, nil
}

func DeleteOpenPosition(actor middleware.AuthenticatedUser, positionID uuid.UUID) *apperrors.AppError {
	var position models.OpenPosition

	if err := db.DB.Where("id = ?", positionID).First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("open position not found")
		}
		log.Printf("Failed to load open position %s: %v", positionID, err)
		return apperrors.Internal()
	}

	var project models.Project

	if err := db.DB.Where("id = ?", position.ProjectID).First(&project).Error; err != nil {
		log.Printf("Failed to load project %s: %v", position.ProjectID, err)
		return apperrors.Internal()
	}

	if !canManagePositions(actor, &project) {
		return apperrors.Forbidden("not enough permissions to manage open positions")
	}

	if err := db.DB.Delete(&position).Error; err != nil {
		log.Printf("Failed to delete open position %s: %v", positionID, err)
		return apperrors.Internal()
	}

	return nil
}
