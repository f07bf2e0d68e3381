package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type GrantReviewerRequest struct {
	ReviewerID uuid.UUID `json:"reviewer_id" binding:"required"`
}

func GrantReviewer(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body GrantReviewerRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	permission, appErr := services.GrantReviewer(actor, projectID, body.ReviewerID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": permission})
}

func RevokeReviewer(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	reviewerID, err := uuid.Parse(ctx.Param("reviewer_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	actor, userErr := utils.GetCurrentUser(ctx)

	if userErr != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.RevokeReviewer(actor, projectID, reviewerID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Reviewer permission revoked"})
}

func ListReviewers(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	includeRevoked := ctx.Query("include_revoked") == "true"

	permissions, appErr := services.ListReviewers(projectID, includeRevoked)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  permissions,
		"count": len(permissions),
	})
}

func ListApprovedApplicants(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	applications, appErr := services.ListApprovedApplicants(projectID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  applications,
		"count": len(applications),
	})
}
