package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/models"
	"github.com/volunhub-dev/volunhub/internal/stream"
	"github.com/volunhub-dev/volunhub/internal/types"
)

// Dispatch persists a notification and pushes it to any live connections of
// the recipient. It never returns an error: the triggering lifecycle
// transition has already committed and must not be unwound by a delivery
// failure, so problems are logged and swallowed here.
func Dispatch(recipientID uuid.UUID, notifyType types.NotificationType, title, message, actionURL string) {
	notification := models.Notification{
		RecipientID: recipientID,
		Type:        notifyType,
		Title:       title,
		Message:     message,
		ActionURL:   actionURL,
	}

	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create %s notification for %s: %v", notifyType, recipientID, err)
		return
	}

	stream.Publish(recipientID, notification)
}

func ListNotifications(recipientID uuid.UUID, skip, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification

	err := db.DB.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, 0, err
	}

	var total int64

	if err := db.DB.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func ListUnreadNotifications(recipientID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification

	err := db.DB.Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error

	return notifications, err
}

func UnreadCount(recipientID uuid.UUID) (int64, error) {
	var count int64

	err := db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error

	return count, err
}

// MarkRead flips is_read for one of the recipient's notifications. Marking an
// already-read notification is a no-op success.
func MarkRead(recipientID, notificationID uuid.UUID) *apperrors.AppError {
	var notification models.Notification

	err := db.DB.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&notification).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("notification not found")
		}
		log.Printf("Failed to load notification %s: %v", notificationID, err)
		return apperrors.Internal()
	}

	if notification.IsRead {
		return nil
	}

	if err := db.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		log.Printf("Failed to mark notification %s read: %v", notificationID, err)
		return apperrors.Internal()
	}

	return nil
}

func MarkAllRead(recipientID uuid.UUID) *apperrors.AppError {
	err := db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error

	if err != nil {
		log.Printf("Failed to mark notifications read for %s: %v", recipientID, err)
		return apperrors.Internal()
	}

	return nil
}
