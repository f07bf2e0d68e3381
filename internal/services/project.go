package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/types"
)

type ProjectInput struct {
	Title                 string
	Description           string
	ProjectType           types.ProjectType
	PreferredTechnologies string
	EstimatedTimeline     types.EstimatedTimeline
}

// SubmitProject creates a project in PENDING for a requester.
func SubmitProject(actor middleware.AuthenticatedUser, input ProjectInput) (*models.Project, *apperrors.AppError) {
	if actor.Role != types.RoleRequester {
		return nil, apperrors.Forbidden("only users with REQUESTER role can create project requests")
	}

	if !input.ProjectType.IsValid() {
		return nil, apperrors.NotEligible("invalid project type %q", input.ProjectType)
	}

	if input.EstimatedTimeline != "" && !input.EstimatedTimeline.IsValid() {
		return nil, apperrors.NotEligible("invalid estimated timeline %q", input.EstimatedTimeline)
	}

	project := models.Project{
		OwnerID:               actor.ID,
		Title:                 input.Title,
		Description:           input.Description,
		ProjectType:           input.ProjectType,
		PreferredTechnologies: input.PreferredTechnologies,
		EstimatedTimeline:     input.EstimatedTimeline,
		Status:                types.ProjectPending,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		return nil, apperrors.Internal()
	}

	return &project, nil
}

// decideProject is the shared compare-and-set for approve/reject. The UPDATE
// only commits if the row is still PENDING; losing a concurrent decision
// surfaces as InvalidState, never a silent overwrite.
func decideProject(actor middleware.AuthenticatedUser, projectID uuid.UUID, decision types.ProjectStatus) (*models.Project, *apperrors.AppError) {
	if actor.Role != types.RoleAdmin {
		return nil, apperrors.Forbidden("only admin users can %s projects", actionName(decision))
	}

	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	result := db.DB.Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, types.ProjectPending).
		Update("status", decision)

	if result.Error != nil {
		log.Printf("Failed to update project %s: %v", projectID, result.Error)
		return nil, apperrors.Internal()
	}

	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("project is %s and can no longer be decided", project.Status)
	}

	project.Status = decision

	switch decision {
	case types.ProjectApproved:
		Dispatch(project.OwnerID, types.NotifyProjectApproved,
			"Project Approved",
			fmt.Sprintf("Your project '%s' has been approved.", project.Title),
			fmt.Sprintf("/projects/%s", project.ID))
	case types.ProjectRejected:
		Dispatch(project.OwnerID, types.NotifyProjectRejected,
			"Project Rejected",
			fmt.Sprintf("Your project '%s' has been rejected.", project.Title),
			fmt.Sprintf("/projects/%s", project.ID))
	}

	return &project, nil
}

func ApproveProject(actor middleware.AuthenticatedUser, projectID uuid.UUID) (*models.Project, *apperrors.AppError) {
	return decideProject(actor, projectID, types.ProjectApproved)
}

func RejectProject(actor middleware.AuthenticatedUser, projectID uuid.UUID) (*models.Project, *apperrors.AppError) {
	return decideProject(actor, projectID, types.ProjectRejected)
}

func actionName(decision types.ProjectStatus) string {
	if decision == types.ProjectApproved {
		return "approve"
	}
	return "reject"
}

// GetProject applies the visibility rules: approved projects are public,
// everything else is visible to admins and the owning requester only.
func GetProject(actor *middleware.AuthenticatedUser, projectID uuid.UUID) (*models.Project, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	if project.Status == types.ProjectApproved {
		return &project, nil
	}

	if actor == nil {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	if actor.Role == types.RoleAdmin || project.OwnerID == actor.ID {
		return &project, nil
	}

	return nil, apperrors.Forbidden("project not available")
}

func listProjectsByStatus(status types.ProjectStatus, page, limit int) ([]models.Project, int64, error) {
	var projects []models.Project

	err := db.DB.Where("status = ?", status).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error

	if err != nil {
		return nil, 0, err
	}

	var total int64

	if err := db.DB.Model(&models.Project{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListApprovedProjects is the public discovery listing.
func ListApprovedProjects(page, limit int) ([]models.Project, int64, error) {
	return listProjectsByStatus(types.ProjectApproved, page, limit)
}

func ListPendingProjects(actor middleware.AuthenticatedUser, page, limit int) ([]models.Project, int64, *apperrors.AppError) {
	if actor.Role != types.RoleAdmin {
		return nil, 0, apperrors.Forbidden("only admin users can list pending projects")
	}

	projects, total, err := listProjectsByStatus(types.ProjectPending, page, limit)

	if err != nil {
		log.Printf("Failed to list pending projects: %v", err)
		return nil, 0, apperrors.Internal()
	}

	return projects, total, nil
}

func ListProjectsByOwner(ownerID uuid.UUID, page, limit int) ([]models.Project, int64, error) {
	var projects []models.Project

	err := db.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error

	if err != nil {
		return nil, 0, err
	}

	var total int64

	if err := db.DB.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// UpdateProject lets the owner edit descriptive fields. Status never changes
// through this path; approval and rejection are separate admin operations.
func UpdateProject(actor middleware.AuthenticatedUser, projectID uuid.UUID, input ProjectInput) (*models.Project, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	if project.OwnerID != actor.ID && actor.Role != types.RoleAdmin {
		return nil, apperrors.Forbidden("you can only update your own projects")
	}

	if !input.ProjectType.IsValid() {
		return nil, apperrors.NotEligible("invalid project type %q", input.ProjectType)
	}

	project.Title = input.Title
	project.Description = input.Description
	project.ProjectType = input.ProjectType
	project.PreferredTechnologies = input.PreferredTechnologies
	project.EstimatedTimeline = input.EstimatedTimeline

	if err := db.DB.Save(&project).Error; err != nil {
		log.Printf("Failed to update project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	return &project, nil
}

func DeleteProject(actor middleware.AuthenticatedUser, projectID uuid.UUID) *apperrors.AppError {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return apperrors.Internal()
	}

	if project.OwnerID != actor.ID && actor.Role != types.RoleAdmin {
		return apperrors.Forbidden("you can only delete your own projects")
	}

	if err := db.DB.Delete(&project).Error; err != nil {
		log.Printf("Failed to delete project %s: %v", projectID, err)
		return apperrors.Internal()
	}

	return nil
}
