package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/types"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type CreateTaskRequest struct {
	Title          string             `json:"title" binding:"required"`
	Description    string             `json:"description"`
	Priority       types.TaskPriority `json:"priority"`
	AssigneeID     *uuid.UUID         `json:"assignee_id"`
	EstimatedHours *int               `json:"estimated_hours"`
	DueDate        *time.Time         `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title          *string             `json:"title"`
	Description    *string             `json:"description"`
	Status         *types.TaskStatus   `json:"status"`
	Priority       *types.TaskPriority `json:"priority"`
	AssigneeID     *uuid.UUID          `json:"assignee_id"`
	EstimatedHours *int                `json:"estimated_hours"`
	ActualHours    *int                `json:"actual_hours"`
	DueDate        *time.Time          `json:"due_date"`
}

func taskIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("task_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return uuid.Nil, false
	}

	return id, true
}

func CreateTask(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, appErr := services.CreateTask(actor, projectID, services.TaskInput{
		Title:          body.Title,
		Description:    body.Description,
		Priority:       body.Priority,
		AssigneeID:     body.AssigneeID,
		EstimatedHours: body.EstimatedHours,
		DueDate:        body.DueDate,
	})

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": task})
}

func ListTasks(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	page, limit := utils.PageParams(ctx)

	tasks, total, appErr := services.ListTasks(projectID, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": tasks,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func UpdateTask(ctx *gin.Context) {
	taskID, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, appErr := services.UpdateTask(actor, taskID, services.TaskUpdateInput{
		Title:          body.Title,
		Description:    body.Description,
		Status:         body.Status,
		Priority:       body.Priority,
		AssigneeID:     body.AssigneeID,
		EstimatedHours: body.EstimatedHours,
		ActualHours:    body.ActualHours,
		DueDate:        body.DueDate,
	})

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func DeleteTask(ctx *gin.Context) {
	taskID, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteTask(actor, taskID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
