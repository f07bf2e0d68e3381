package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/db"
	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/middleware"
	"github.com/volunhub-dev/volunhub/internal/models"
)

type ThreadInput struct {
	Title string
	Body  string
}

// CreateThread opens a discussion topic on a project. Any authenticated user
// may post; reads are public.
func CreateThread(actor middleware.AuthenticatedUser, projectID uuid.UUID, input ThreadInput) (*models.Thread, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, apperrors.Internal()
	}

	thread := models.Thread{
		ProjectID: projectID,
		AuthorID:  actor.ID,
		Title:     input.Title,
		Body:      input.Body,
	}

	if err := db.DB.Create(&thread).Error; err != nil {
		log.Printf("Failed to create thread: %v", err)
		return nil, apperrors.Internal()
	}

	return &thread, nil
}

func ListThreads(projectID uuid.UUID, page, limit int) ([]models.Thread, int64, *apperrors.AppError) {
	var project models.Project

	if err := db.DB.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("project not found")
		}
		log.Printf("Failed to load project %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	var threads []models.Thread

	err := db.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&threads).Error

	if err != nil {
		log.Printf("Failed to list threads for %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	var total int64

	err = db.DB.Model(&models.Thread{}).
		Where("project_id = ?", projectID).
		Count(&total).Error

	if err != nil {
		log.Printf("Failed to count threads for %s: %v", projectID, err)
		return nil, 0, apperrors.Internal()
	}

	return threads, total, nil
}

// GetThread loads one thread with its full comment tree. Comments and their
// replies come back oldest first.
func GetThread(threadID uuid.UUID) (*models.Thread, *apperrors.AppError) {
	var thread models.Thread

	err := db.DB.
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Comments.Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Where("id = ?", threadID).
		First(&thread).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("thread not found")
		}
		log.Printf("Failed to load thread %s: %v", threadID, err)
		return nil, apperrors.Internal()
	}

	return &thread, nil
}

func CreateComment(actor middleware.AuthenticatedUser, threadID uuid.UUID, body string) (*models.Comment, *apperrors.AppError) {
	var thread models.Thread

	if err := db.DB.Where("id = ?", threadID).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("thread not found")
		}
		log.Printf("Failed to load thread %s: %v", threadID, err)
		return nil, apperrors.Internal()
	}

	comment := models.Comment{
		ThreadID: threadID,
		AuthorID: actor.ID,
		Body:     body,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		return nil, apperrors.Internal()
	}

	return &comment, nil
}

func ListComments(threadID uuid.UUID, page, limit int) ([]models.Comment, int64, *apperrors.AppError) {
	var thread models.Thread

	if err := db.DB.Where("id = ?", threadID).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("thread not found")
		}
		log.Printf("Failed to load thread %s: %v", threadID, err)
		return nil, 0, apperrors.Internal()
	}

	var comments []models.Comment

	err := db.DB.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error

	if err != nil {
		log.Printf("Failed to list comments for %s: %v", threadID, err)
		return nil, 0, apperrors.Internal()
	}

	var total int64

	err = db.DB.Model(&models.Comment{}).
		Where("thread_id = ?", threadID).
		Count(&total).Error

	if err != nil {
		log.Printf("Failed to count comments for %s: %v", threadID, err)
		return nil, 0, apperrors.Internal()
	}

	return comments, total, nil
}

// UpdateComment edits a comment body. Only the author may edit; there is no
// owner or admin override for discussion content.
func UpdateComment(actor middleware.AuthenticatedUser, commentID uuid.UUID, body string) (*models.Comment, *apperrors.AppError) {
	var comment models.Comment

	if err := db.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		log.Printf("Failed to load comment %s: %v", commentID, err)
		return nil, apperrors.Internal()
	}

	if comment.AuthorID != actor.ID {
		return nil, apperrors.Forbidden("only the author can edit this comment")
	}

	comment.Body = body

	if err := db.DB.Save(&comment).Error; err != nil {
		log.Printf("Failed to update comment %s: %v", commentID, err)
		return nil, apperrors.Internal()
	}

	return &comment, nil
}

func DeleteComment(actor middleware.AuthenticatedUser, commentID uuid.UUID) *apperrors.AppError {
	var comment models.Comment

	if err := db.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("comment not found")
		}
		log.Printf("Failed to load comment %s: %v", commentID, err)
		return apperrors.Internal()
	}

	if comment.AuthorID != actor.ID {
		return apperrors.Forbidden("only the author can delete this comment")
	}

	// Replies go with their comment.
	if err := db.DB.Where("comment_id = ?", commentID).Delete(&models.Reply{}).Error; err != nil {
		log.Printf("Failed to delete replies for comment %s: %v", commentID, err)
		return apperrors.Internal()
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		log.Printf("Failed to delete comment %s: %v", commentID, err)
		return apperrors.Internal()
	}

	return nil
}

func CreateReply(actor middleware.AuthenticatedUser, commentID uuid.UUID, body string) (*models.Reply, *apperrors.AppError) {
	var comment models.Comment

	if err := db.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		log.Printf("Failed to load comment %s: %v", commentID, err)
		return nil, apperrors.Internal()
	}

	reply := models.Reply{
		CommentID: commentID,
		AuthorID:  actor.ID,
		Body:      body,
	}

	if err := db.DB.Create(&reply).Error; err != nil {
		log.Printf("Failed to create reply: %v", err)
		return nil, apperrors.Internal()
	}

	return &reply, nil
}

func ListReplies(commentID uuid.UUID, page, limit int) ([]models.Reply, int64, *apperrors.AppError) {
	var comment models.Comment

	if err := db.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("comment not found")
		}
		log.Printf("Failed to load comment %s: %v", commentID, err)
		return nil, 0, apperrors.Internal()
	}

	var replies []models.Reply

	err := db.DB.Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&replies).Error

	if err != nil {
		log.Printf("Failed to list replies for %s: %v", commentID, err)
		return nil, 0, apperrors.Internal()
	}

	var total int64

	err = db.DB.Model(&models.Reply{}).
		Where("comment_id = ?", commentID).
		Count(&total).Error

	if err != nil {
		log.Printf("Failed to count replies for %s: %v", commentID, err)
		return nil, 0, apperrors.Internal()
	}

	return replies, total, nil
}

func UpdateReply(actor middleware.AuthenticatedUser, replyID uuid.UUID, body string) (*models.Reply, *apperrors.AppError) {
	var reply models.Reply

	if err := db.DB.Where("id = ?", replyID).First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("reply not found")
		}
		log.Printf("Failed to load reply %s: %v", replyID, err)
		return nil, apperrors.Internal()
	}

	if reply.AuthorID != actor.ID {
		return nil, apperrors.Forbidden("only the author can edit this reply")
	}

	reply.Body = body

	if err := db.DB.Save(&reply).Error; err != nil {
		log.Printf("Failed to update reply %s: %v", replyID, err)
		return nil, apperrors.Internal()
	}

	return &reply, nil
}

func DeleteReply(actor middleware.AuthenticatedUser, replyID uuid.UUID) *apperrors.AppError {
	var reply models.Reply

	if err := db.DB.Where("id = ?", replyID).First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("reply not found")
		}
		log.Printf("Failed to load reply %s: %v", replyID, err)
		return apperrors.Internal()
	}

	if reply.AuthorID != actor.ID {
		return apperrors.Forbidden("only the author can delete this reply")
	}

	if err := db.DB.Delete(&reply).Error; err != nil {
		log.Printf("Failed to delete reply %s: %v", replyID, err)
		return apperrors.Internal()
	}

	return nil
}
