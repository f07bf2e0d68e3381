package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/services"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type ThreadRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"max=10000"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
	// Optional; when clients echo the parent back it must match the path.
	ParentID *uuid.UUID `json:"parent_id"`
}

func threadIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("thread_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread ID"})
		return uuid.Nil, false
	}

	return id, true
}

func commentIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("comment_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return uuid.Nil, false
	}

	return id, true
}

func replyIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("reply_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return uuid.Nil, false
	}

	return id, true
}

func ListThreads(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	page, limit := utils.PageParams(ctx)

	threads, total, appErr := services.ListThreads(projectID, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": threads,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func CreateThread(ctx *gin.Context) {
	projectID, ok := projectIDParam(ctx)

	if !ok {
		return
	}

	var body ThreadRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	thread, appErr := services.CreateThread(actor, projectID, services.ThreadInput{
		Title: body.Title,
		Body:  body.Body,
	})

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": thread})
}

func GetThread(ctx *gin.Context) {
	threadID, ok := threadIDParam(ctx)

	if !ok {
		return
	}

	thread, appErr := services.GetThread(threadID)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": thread})
}

func ListComments(ctx *gin.Context) {
	threadID, ok := threadIDParam(ctx)

	if !ok {
		return
	}

	page, limit := utils.PageParams(ctx)

	comments, total, appErr := services.ListComments(threadID, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": comments,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func CreateComment(ctx *gin.Context) {
	threadID, ok := threadIDParam(ctx)

	if !ok {
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, appErr := services.CreateComment(actor, threadID, body.Body)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": comment})
}

func UpdateComment(ctx *gin.Context) {
	commentID, ok := commentIDParam(ctx)

	if !ok {
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, appErr := services.UpdateComment(actor, commentID, body.Body)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": comment})
}

func DeleteComment(ctx *gin.Context) {
	commentID, ok := commentIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteComment(actor, commentID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListReplies(ctx *gin.Context) {
	commentID, ok := commentIDParam(ctx)

	if !ok {
		return
	}

	page, limit := utils.PageParams(ctx)

	replies, total, appErr := services.ListReplies(commentID, page, limit)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": replies,
		"meta": utils.NewMeta(total, page, limit),
	})
}

func CreateReply(ctx *gin.Context) {
	commentID, ok := commentIDParam(ctx)

	if !ok {
		return
	}

	var body ReplyRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.ParentID != nil && *body.ParentID != commentID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Parent ID must match comment ID"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reply, appErr := services.CreateReply(actor, commentID, body.Body)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": reply})
}

func UpdateReply(ctx *gin.Context) {
	replyID, ok := replyIDParam(ctx)

	if !ok {
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reply, appErr := services.UpdateReply(actor, replyID, body.Body)

	if appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": reply})
}

func DeleteReply(ctx *gin.Context) {
	replyID, ok := replyIDParam(ctx)

	if !ok {
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if appErr := services.DeleteReply(actor, replyID); appErr != nil {
		abortWithAppError(ctx, appErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
