package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/types"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type OpenPositionRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Role        types.VolunteerRole `json:"role" binding:"required"`
	IsActive    *bool               `json:"is_active"`
}

func (r OpenPositionRequest) toInput() services.OpenPositionInput {
	return services.OpenPositionInput{
		Title:       r.Title,
		Description: r.Description,
		Role:        r.Role,
		IsActive:    r.IsActive,
	}
}

func positionIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("position_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position ID"})
		return uuid.Nil, false
	}

	return id, true
}

func ListOpenPositions(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	positions, appErr := services.ListOpenPositions(projectID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  positions,
		"count": len(positions),
	})
}

func CreateOpenPosition(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body OpenPositionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	position, appErr := services.CreateOpenPosition(actor, projectID, body.toInput())

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": position})
}

func UpdateOpenPosition(ctx *gin.Context) {
	positionID, ok := positionIDParam(ctx)

	if !ok {
		return
	}

	var body OpenPositionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	position, appErr := services.UpdateOpenPosition(actor, positionID, body.toInput())

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": position})
}

func DeleteOpenPosition(ctx *gin.Context) {
	positionID, ok := positionIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteOpenPosition(actor, positionID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
