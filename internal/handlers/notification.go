package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

func ListNotifications(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	notifications, total, listErr := services.ListNotifications(actor.ID, skip, limit)

	if listErr != nil {
		log.Printf("Failed to list notifications for %s: %v", actor.ID, listErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  notifications,
		"count": total,
	})
}

func ListUnreadNotifications(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifications, listErr := services.ListUnreadNotifications(actor.ID)

	if listErr != nil {
		log.Printf("Failed to list unread notifications for %s: %v", actor.ID, listErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  notifications,
		"count": len(notifications),
	})
}

func GetUnreadCount(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, countErr := services.UnreadCount(actor.ID)

	if countErr != nil {
		log.Printf("Failed to count unread notifications for %s: %v", actor.ID, countErr)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func MarkNotificationRead(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, parseErr := uuid.Parse(ctx.Param("notification_id"))

	if parseErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if appErr := services.MarkRead(actor.ID, notificationID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.MarkAllRead(actor.ID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
