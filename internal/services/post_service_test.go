package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db, nil)

	alice, err := users.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	t.Run("Success post creation", func(t *testing.T) {
		post, err := posts.CreatePost("Title", "Content", "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "alice", post.Author)
		assert.WithinDuration(t, time.Now(), post.Date, 5*time.Second)
		assert.Empty(t, post.Comments)

		// The author's reference list picks up the new post id
		user, err := users.GetUserByID(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{post.ID}, user.PostIDs)
	})

	t.Run("Error: unknown author", func(t *testing.T) {
		_, err := posts.CreatePost("Title", "Content", "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)

		// No orphaned post row left behind
		all, err := posts.GetAllPosts()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestPostService_GetAllPosts(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db, nil)

	_, err := users.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	all, err := posts.GetAllPosts()
	require.NoError(t, err)
	assert.Empty(t, all)

	first, err := posts.CreatePost("First", "1", "alice")
	require.NoError(t, err)
	second, err := posts.CreatePost("Second", "2", "alice")
	require.NoError(t, err)

	all, err = posts.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestPostService_AddComment(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db, nil)

	_, err := users.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)
	post, err := posts.CreatePost("Title", "Content", "alice")
	require.NoError(t, err)

	t.Run("Comments append in order with generated ids", func(t *testing.T) {
		comments, err := posts.AddComment(post.ID, "bob", "first!")
		require.NoError(t, err)
		require.Len(t, comments, 1)

		comments, err = posts.AddComment(post.ID, "carol", "second")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first!", comments[0].Text)
		assert.Equal(t, "second", comments[1].Text)
		assert.NotEmpty(t, comments[0].ID)
		assert.NotEmpty(t, comments[1].ID)
		assert.NotEqual(t, comments[0].ID, comments[1].ID)

		// Persisted, not just returned
		stored, err := posts.GetPostByID(post.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Comments, 2)
	})

	t.Run("Error: unknown post", func(t *testing.T) {
		_, err := posts.AddComment("missing-id", "bob", "hi")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db, nil)

	alice, err := users.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)
	post, err := posts.CreatePost("Title", "Content", "alice")
	require.NoError(t, err)

	t.Run("Error: requester is not the author", func(t *testing.T) {
		err := posts.DeletePost(post.ID, "mallory")
		assert.ErrorIs(t, err, ErrNotPostAuthor)

		all, err := posts.GetAllPosts()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Success delete by author", func(t *testing.T) {
		require.NoError(t, posts.DeletePost(post.ID, "alice"))

		all, err := posts.GetAllPosts()
		require.NoError(t, err)
		assert.Empty(t, all)

		user, err := users.GetUserByID(alice.ID)
		require.NoError(t, err)
		assert.Empty(t, user.PostIDs)
	})

	t.Run("Error: unknown post", func(t *testing.T) {
		err := posts.DeletePost("missing-id", "alice")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostService_RecordsEvents(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	events := NewEventService(db, nil)
	posts := NewPostService(db, events)

	_, err := users.Register("alice", "a@x.com", "pw")
	require.NoError(t, err)

	post, err := posts.CreatePost("Title", "Content", "alice")
	require.NoError(t, err)
	_, err = posts.AddComment(post.ID, "bob", "hi")
	require.NoError(t, err)
	require.NoError(t, posts.DeletePost(post.ID, "alice"))

	recent, err := events.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	types := []string{recent[0].Type, recent[1].Type, recent[2].Type}
	assert.Contains(t, types, "post.created")
	assert.Contains(t, types, "comment.added")
	assert.Contains(t, types, "post.deleted")
}
