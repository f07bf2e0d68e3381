package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/types"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type ProjectRequest struct {
	Title                 string                  `json:"title" binding:"required"`
	Description           string                  `json:"description" binding:"required"`
	ProjectType           types.ProjectType       `json:"project_type" binding:"required"`
	PreferredTechnologies string                  `json:"preferred_technologies"`
	EstimatedTimeline     types.EstimatedTimeline `json:"estimated_timeline"`
}

func (r ProjectRequest) toInput() services.ProjectInput {
	return services.ProjectInput{
		Title:                 r.Title,
		Description:           r.Description,
		ProjectType:           r.ProjectType,
		PreferredTechnologies: r.PreferredTechnologies,
		EstimatedTimeline:     r.EstimatedTimeline,
	}
}

func projectIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("project_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return uuid.Nil, false
	}

	return id, true
}

func SubmitProject(ctx *gin.Context) {
	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, appErr := services.SubmitProject(actor, body.toInput())

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": project})
}

func GetProject(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	// Anonymous requests may still see approved projects
	var actorPtr *middleware.AuthenticatedUser

	if actor, err := utils.GetCurrentUser(ctx); err == nil {
		actorPtr = &actor
	}

	project, appErr := services.GetProject(actorPtr, projectID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}

func ListApprovedProjects(ctx *gin.Context) {
	page, limit := utils.PageParams(ctx)

	projects, total, err := services.ListApprovedProjects(page, limit)

	if err != nil {
		log.Printf("Failed to list approved projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": projects,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func ListPendingProjects(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.PageParams(ctx)

	projects, total, appErr := services.ListPendingProjects(actor, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": projects,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func ListMyProjects(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.PageParams(ctx)

	projects, total, listErr := services.ListProjectsByOwner(actor.ID, page, limit)

	if listErr != nil {
		log.Printf("Failed to list projects for %s: %v", actor.ID, listErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": projects,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func UpdateProject(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, appErr := services.UpdateProject(actor, projectID, body.toInput())

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}

func DeleteProject(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteProject(actor, projectID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ApproveProject(ctx *gin.Context) {
	decideProject(ctx, services.ApproveProject)
}

func RejectProject(ctx *gin.Context) {
	decideProject(ctx, services.RejectProject)
}

func decideProject(ctx *gin.Context, decide func(middleware.AuthenticatedUser, uuid.UUID) (*models.Project, *apperrors.AppError)) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, appErr := decide(actor, projectID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}
