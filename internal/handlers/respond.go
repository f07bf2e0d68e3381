package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/volunhub-dev/volunhub/internal/apperrors"
)

// abortWithAppError maps a lifecycle error onto its HTTP status. The code
// stays machine-readable so the client can distinguish authorization
// failures from state conflicts.
func abortWithAppError(ctx *gin.Context, err *apperrors.AppError) {
	ctx.JSON(err.HTTPStatus(), gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
