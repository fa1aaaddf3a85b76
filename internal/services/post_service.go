package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"miniblog/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAllPosts() ([]models.Post, error)
	GetPostByID(id string) (models.Post, error)
	CreatePost(title, content, author string) (models.Post, error)
	AddComment(postID, author, text string) ([]models.Comment, error)
	DeletePost(postID, requester string) error
}

// PostService provides business logic for posts and their embedded comments.
type PostService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, events EventServiceProvider) *PostService {
	return &PostService{db: db, events: events}
}

// GetAllPosts retrieves every post in insertion order.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	rows, err := s.db.Query("SELECT id, title, author, content, date, comments_json FROM posts ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		var commentsJSON string
		if err := rows.Scan(&post.ID, &post.Title, &post.Author, &post.Content, &post.Date, &commentsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(commentsJSON), &post.Comments); err != nil {
			return nil, fmt.Errorf("decode comments for post %s: %w", post.ID, err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPostByID retrieves a single post. An unknown or malformed id fails with
// ErrPostNotFound.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	return scanPost(s.db.QueryRow(
		"SELECT id, title, author, content, date, comments_json FROM posts WHERE id = ?", id))
}

// CreatePost creates a post stamped with the current server time and appends
// its id to the author's reference list. Both writes happen in one
// transaction so a failure cannot leave the pair inconsistent. The author
// must be an existing username or the call fails with ErrUserNotFound.
func (s *PostService) CreatePost(title, content, author string) (models.Post, error) {
	post := models.Post{
		ID:       uuid.New().String(),
		Title:    title,
		Author:   author,
		Content:  content,
		Date:     time.Now().UTC(),
		Comments: []models.Comment{},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Post{}, err
	}
	defer tx.Rollback()

	userID, postIDs, err := userPostRefs(tx, "username", author)
	if err != nil {
		return models.Post{}, err
	}

	if _, err := tx.Exec(
		"INSERT INTO posts(id, title, author, content, date, comments_json) VALUES(?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Author, post.Content, post.Date, "[]"); err != nil {
		return models.Post{}, err
	}

	if err := saveUserPostRefs(tx, userID, append(postIDs, post.ID)); err != nil {
		return models.Post{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Post{}, err
	}

	s.recordEvent("post.created", fmt.Sprintf("%s published %q", author, title), &post.ID)
	return post, nil
}

// AddComment appends a comment to a post and returns the full updated list.
func (s *PostService) AddComment(postID, author, text string) ([]models.Comment, error) {
	comment := models.Comment{
		ID:     uuid.New().String(),
		Author: author,
		Text:   text,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	post, err := scanPost(tx.QueryRow(
		"SELECT id, title, author, content, date, comments_json FROM posts WHERE id = ?", postID))
	if err != nil {
		return nil, err
	}

	comments := append(post.Comments, comment)
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec("UPDATE posts SET comments_json = ? WHERE id = ?", string(commentsJSON), postID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.recordEvent("comment.added", fmt.Sprintf("%s commented on %q", author, post.Title), &postID)
	return comments, nil
}

// DeletePost removes a post and its reference from the author's list in one
// transaction. Only the post's author may delete it; anyone else fails with
// ErrNotPostAuthor. A missing post, a missing author record, or a reference
// list that does not contain the post all fail with ErrPostNotFound.
func (s *PostService) DeletePost(postID, requester string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	post, err := scanPost(tx.QueryRow(
		"SELECT id, title, author, content, date, comments_json FROM posts WHERE id = ?", postID))
	if err != nil {
		return err
	}

	if post.Author != requester {
		return ErrNotPostAuthor
	}

	userID, postIDs, err := userPostRefs(tx, "username", post.Author)
	if err != nil {
		if err == ErrUserNotFound {
			return ErrPostNotFound
		}
		return err
	}

	remaining := postIDs[:0]
	found := false
	for _, id := range postIDs {
		if id == postID {
			found = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !found {
		return ErrPostNotFound
	}

	if err := saveUserPostRefs(tx, userID, remaining); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM posts WHERE id = ?", postID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.recordEvent("post.deleted", fmt.Sprintf("%s deleted %q", requester, post.Title), nil)
	return nil
}

func (s *PostService) recordEvent(eventType, message string, postID *string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, "info", message, postID); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

func scanPost(row *sql.Row) (models.Post, error) {
	var post models.Post
	var commentsJSON string
	err := row.Scan(&post.ID, &post.Title, &post.Author, &post.Content, &post.Date, &commentsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	if err := json.Unmarshal([]byte(commentsJSON), &post.Comments); err != nil {
		return models.Post{}, fmt.Errorf("decode comments for post %s: %w", post.ID, err)
	}
	return post, nil
}

// userPostRefs loads a user's id and post-reference list inside a transaction.
func userPostRefs(tx *sql.Tx, byColumn, value string) (string, []string, error) {
	var userID, refsJSON string
	row := tx.QueryRow("SELECT id, post_ids_json FROM users WHERE "+byColumn+" = ?", value)
	if err := row.Scan(&userID, &refsJSON); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}
	var postIDs []string
	if err := json.Unmarshal([]byte(refsJSON), &postIDs); err != nil {
		return "", nil, fmt.Errorf("decode post references for user %s: %w", userID, err)
	}
	return userID, postIDs, nil
}

func saveUserPostRefs(tx *sql.Tx, userID string, postIDs []string) error {
	refsJSON, err := json.Marshal(postIDs)
	if err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE users SET post_ids_json = ? WHERE id = ?", string(refsJSON), userID)
	return err
}
