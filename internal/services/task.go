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

type TaskInput struct {
	Title          string
	Description    string
	Priority       types.TaskPriority
	AssigneeID     *uuid.UUID
	EstimatedHours *int
	DueDate        *time.Time
}

type TaskUpdateInput struct {
	Title          *string
	Description    *string
	Status         *types.TaskStatus
	Priority       *types.TaskPriority
	AssigneeID     *uuid.UUID
	EstimatedHours *int
	ActualHours    *int
	DueDate        *time.Time
}

// hasVolunteerStanding reports whether the user is an approved applicant on
// the project.
func hasVolunteerStanding(projectID, userID uuid.UUID) bool {
	var count int64

	err := db.DB.Model(&models.Application{}).
		Where("project_id = ? AND volunteer_id = ? AND status = ?",
			projectID, userID, types.ApplicationApproved).
		Count(&count).Error

	if err != nil {
		log.Printf("Failed to check volunteer standing: %v", err)
		return false
	}

	return count > 0
}

// CreateTask adds a task to a project's board. Creation is open to the
// project owner, admins, and volunteers with standing on the project.
func CreateTask(actor middleware.AuthenticatedUser, projectID uuid.UUID, input TaskInput) (*models.Task, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	allowed := actor.Role == types.RoleAdmin ||
		project.OwnerID == actor.ID ||
		(actor.Role == types.RoleVolunteer && hasVolunteerStanding(projectID, actor.ID))

	if !allowed {
		return nil, apperrors.Forbidden("you need standing on this project to create tasks")
	}

	priority := input.Priority

	if priority == "" {
		priority = types.PriorityMedium
	}

	if !priority.IsValid() {
		return nil, apperrors.NotEligible("invalid task priority %q", priority)
	}

	task := models.Task{
		ProjectID:      projectID,
		CreatorID:      actor.ID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         types.TaskTodo,
		Priority:       priority,
		AssigneeID:     input.AssigneeID,
		EstimatedHours: input.EstimatedHours,
		DueDate:        input.DueDate,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		return nil, apperrors.Internal()
	}

	if task.AssigneeID != nil && *task.AssigneeID != actor.ID {
		notifyTaskAssigned(&task, &project)
	}

	return &task, nil
}

func notifyTaskAssigned(task *models.Task, project *models.Project) {
	Dispatch(*task.AssigneeID, types.NotifyTaskAssigned,
		"New Task Assigned",
		fmt.Sprintf("A task has been assigned to you: %s", task.Title),
		fmt.Sprintf("/projects/%s/tasks/%s", project.ID, task.ID))
}

func canMutateTask(actor middleware.AuthenticatedUser, task *models.Task, project *models.Project) bool {
	if actor.Role == types.RoleAdmin {
		return true
	}
	if task.CreatorID == actor.ID || project.OwnerID == actor.ID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == actor.ID
}

// UpdateTask applies partial changes to a task. Status changes go through the
// board state machine: terminal states have no exits, and an illegal move is
// an InvalidState error. Status transitions do not emit notifications;
// reassignment notifies the new assignee.
func UpdateTask(actor middleware.AuthenticatedUser, taskID uuid.UUID, input TaskUpdateInput) (*models.Task, *apperrors.AppError) {
	var task models.Task

	if err := db.DB.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		log.Printf("Failed to load task %s: %v", taskID, err)
		return nil, apperrors.Internal()
	}

	var project models.Project

	if err := db.DB.Where("id = ?", task.ProjectID).First(&project).Error; err != nil {
		log.Printf("Failed to load project %s: %v", task.ProjectID, err)
		return nil, apperrors.Internal()
	}

	// The new assignee may pick up the task themselves
	isNewAssignee := input.AssigneeID != nil && *input.AssigneeID == actor.ID

	if !canMutateTask(actor, &task, &project) && !isNewAssignee {
		return nil, apperrors.Forbidden("only the creator, assignee, or project owner can update this task")
	}

	previousStatus := task.Status
	assigneeChanged := false

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.NotEligible("invalid task status %q", *input.Status)
		}
		if !previousStatus.CanTransitionTo(*input.Status) {
			return nil, apperrors.InvalidState("cannot move task from %s to %s", previousStatus, *input.Status)
		}
	}

	// Only the columns named in the input are written. Status stays out of
	// this map: it is owned by the compare-and-set below, and a full-row
	// save here would overwrite a concurrent move with the stale struct.
	changes := map[string]interface{}{}

	if input.Title != nil {
		task.Title = *input.Title
		changes["title"] = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
		changes["description"] = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, apperrors.NotEligible("invalid task priority %q", *input.Priority)
		}
		task.Priority = *input.Priority
		changes["priority"] = *input.Priority
	}
	if input.AssigneeID != nil {
		if task.AssigneeID == nil || *task.AssigneeID != *input.AssigneeID {
			assigneeChanged = true
		}
		task.AssigneeID = input.AssigneeID
		changes["assignee_id"] = *input.AssigneeID
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
		changes["estimated_hours"] = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = input.ActualHours
		changes["actual_hours"] = *input.ActualHours
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
		changes["due_date"] = *input.DueDate
	}

	if input.Status != nil {
		// CAS on the previously observed status so a concurrent move loses
		// instead of silently overwriting.
		result := db.DB.Model(&models.Task{}).
			Where("id = ? AND status = ?", taskID, previousStatus).
			Update("status", *input.Status)

		if result.Error != nil {
			log.Printf("Failed to update task %s status: %v", taskID, result.Error)
			return nil, apperrors.Internal()
		}

		if result.RowsAffected == 0 {
			return nil, apperrors.InvalidState("task status changed concurrently, reload and retry")
		}

		task.Status = *input.Status
	}

	if len(changes) > 0 {
		if err := db.DB.Model(&models.Task{}).Where("id = ?", taskID).Updates(changes).Error; err != nil {
			log.Printf("Failed to update task %s: %v", taskID, err)
			return nil, apperrors.Internal()
		}
	}

	if assigneeChanged && task.AssigneeID != nil && *task.AssigneeID != actor.ID {
		notifyTaskAssigned(&task, &project)
	}

	return &task, nil
}

func DeleteTask(actor middleware.AuthenticatedUser, taskID uuid.UUID) *apperrors.AppError {
	var task models.Task

	if err := db.DB.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("task not found")
		}
		log.Printf("Failed to load task %s: %v", taskID, err)
		return apperrors.Internal()
	}

	var project models.Project

	if err := db.DB.Where("id = ?", task.ProjectID).First(&project).Error; err != nil {
		log.Printf("Failed to load project %s: %v", task.ProjectID, err)
		return apperrors.Internal()
	}

	if !canMutateTask(actor, &task, &project) {
		return apperrors.Forbidden("only the creator, assignee, or project owner can delete this task")
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		log.Printf("Failed to delete task %s: %v", taskID, err)
		return apperrors.Internal()
	}

	return nil
}

func ListTasks(projectID uuid.UUID, page, limit int) ([]models.Task, int64, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	var tasks []models.Task

	err := db.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error

	if err != nil {
		log.Printf("Failed to list tasks for %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	var total int64

	if err := db.DB.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		log.Printf("Failed to count tasks for %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	return tasks, total, nil
}
