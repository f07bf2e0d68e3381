package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub-dev/volunhub/internal/apperrors"
	"github.com/volunhub-dev/volunhub/internal/types"
)

func TestCreateThread(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	author := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	thread, appErr := CreateThread(asActor(author), project.ID, ThreadInput{
		Title: "Kickoff questions",
		Body:  "When is the first sync?",
	})
	require.Nil(t, appErr)
	assert.Equal(t, author.ID, thread.AuthorID)
	assert.Equal(t, project.ID, thread.ProjectID)
}

func TestCreateThreadUnknownProject(t *testing.T) {
	setupTestDB(t)

	author := createTestUser(t, types.RoleVolunteer)

	_, appErr := CreateThread(asActor(author), uuid.New(), ThreadInput{Title: "Lost"})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestListThreadsPaginated(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	project := createTestProject(t, owner, types.ProjectApproved)

	for _, title := range []string{"One", "Two", "Three"} {
		_, appErr := CreateThread(asActor(owner), project.ID, ThreadInput{Title: title})
		require.Nil(t, appErr)
	}

	threads, total, appErr := ListThreads(project.ID, 1, 2)
	require.Nil(t, appErr)
	assert.Len(t, threads, 2)
	assert.EqualValues(t, 3, total)
}

func TestGetThreadLoadsCommentTree(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	author := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	thread, appErr := CreateThread(asActor(owner), project.ID, ThreadInput{Title: "Plan"})
	require.Nil(t, appErr)

	first, appErr := CreateComment(asActor(author), thread.ID, "First comment")
	require.Nil(t, appErr)
	_, appErr = CreateComment(asActor(owner), thread.ID, "Second comment")
	require.Nil(t, appErr)

	_, appErr = CreateReply(asActor(owner), first.ID, "Replying to the first")
	require.Nil(t, appErr)

	loaded, appErr := GetThread(thread.ID)
	require.Nil(t, appErr)
	require.Len(t, loaded.Comments, 2)

	// Comments come back oldest first, replies attached to their parent.
	assert.Equal(t, "First comment", loaded.Comments[0].Body)
	require.Len(t, loaded.Comments[0].Replies, 1)
	assert.Equal(t, "Replying to the first", loaded.Comments[0].Replies[0].Body)
	assert.Empty(t, loaded.Comments[1].Replies)
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	author := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	thread, appErr := CreateThread(asActor(owner), project.ID, ThreadInput{Title: "Plan"})
	require.Nil(t, appErr)

	comment, appErr := CreateComment(asActor(author), thread.ID, "Original")
	require.Nil(t, appErr)

	// The project owner still cannot edit someone else's comment.
	_, appErr = UpdateComment(asActor(owner), comment.ID, "Hijacked")
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	updated, appErr := UpdateComment(asActor(author), comment.ID, "Edited")
	require.Nil(t, appErr)
	assert.Equal(t, "Edited", updated.Body)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	author := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	thread, appErr := CreateThread(asActor(owner), project.ID, ThreadInput{Title: "Plan"})
	require.Nil(t, appErr)

	comment, appErr := CreateComment(asActor(author), thread.ID, "Doomed")
	require.Nil(t, appErr)

	_, appErr = CreateReply(asActor(owner), comment.ID, "Also doomed")
	require.Nil(t, appErr)

	appErr = DeleteComment(asActor(owner), comment.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	require.Nil(t, DeleteComment(asActor(author), comment.ID))

	_, _, appErr = ListReplies(comment.ID, 1, 10)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestReplyLifecycle(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, types.RoleRequester)
	author := createTestUser(t, types.RoleVolunteer)
	project := createTestProject(t, owner, types.ProjectApproved)

	thread, appErr := CreateThread(asActor(owner), project.ID, ThreadInput{Title: "Plan"})
	require.Nil(t, appErr)

	comment, appErr := CreateComment(asActor(owner), thread.ID, "Top level")
	require.Nil(t, appErr)

	reply, appErr := CreateReply(asActor(author), comment.ID, "Nested")
	require.Nil(t, appErr)
	assert.Equal(t, comment.ID, reply.CommentID)

	_, appErr = UpdateReply(asActor(owner), reply.ID, "Hijacked")
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	updated, appErr := UpdateReply(asActor(author), reply.ID, "Edited")
	require.Nil(t, appErr)
	assert.Equal(t, "Edited", updated.Body)

	replies, total, appErr := ListReplies(comment.ID, 1, 10)
	require.Nil(t, appErr)
	assert.Len(t, replies, 1)
	assert.EqualValues(t, 1, total)

	appErr = DeleteReply(asActor(owner), reply.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	require.Nil(t, DeleteReply(asActor(author), reply.ID))

	replies, total, appErr = ListReplies(comment.ID, 1, 10)
	require.Nil(t, appErr)
	assert.Empty(t, replies)
	assert.Zero(t, total)
}
