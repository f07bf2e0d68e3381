package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/types"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type CreateApplicationRequest struct {
	VolunteerRole   types.VolunteerRole `json:"volunteer_role" binding:"required"`
	CoverLetter     string              `json:"cover_letter" binding:"required"`
	Skills          []string            `json:"skills"`
	ExperienceYears *int                `json:"experience_years"`
	PortfolioURL    string              `json:"portfolio_url"`
	LinkedinURL     string              `json:"linkedin_url"`
	GithubURL       string              `json:"github_url"`
}

func applicationIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("application_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return uuid.Nil, false
	}

	return id, true
}

func CreateApplication(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body CreateApplicationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	application, appErr := services.CreateApplication(actor, projectID, services.ApplicationInput{
		VolunteerRole:   body.VolunteerRole,
		CoverLetter:     body.CoverLetter,
		Skills:          body.Skills,
		ExperienceYears: body.ExperienceYears,
		PortfolioURL:    body.PortfolioURL,
		LinkedinURL:     body.LinkedinURL,
		GithubURL:       body.GithubURL,
	})

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": application})
}

func ListProjectApplications(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.PageParams(ctx)

	applications, total, appErr := services.ListApplicationsForProject(actor, projectID, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": applications,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func ListMyApplications(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.PageParams(ctx)

	applications, total, listErr := services.ListApplicationsForVolunteer(actor.ID, page, limit)

	if listErr != nil {
		log.Printf("Failed to list applications for %s: %v", actor.ID, listErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": applications,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func ApproveApplication(ctx *gin.Context) {
	decideApplication(ctx, types.ApplicationApproved)
}

func RejectApplication(ctx *gin.Context) {
	decideApplication(ctx, types.ApplicationRejected)
}

func decideApplication(ctx *gin.Context, decision types.ApplicationStatus) {
	applicationID, ok := applicationIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	application, appErr := services.UpdateApplicationStatus(actor, applicationID, decision)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": application})
}

func DeleteApplication(ctx *gin.Context) {
	applicationID, ok := applicationIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteApplication(actor, applicationID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
