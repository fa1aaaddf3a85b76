package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"miniblog/internal/auth"
	"miniblog/internal/services"
)

// PostHandler handles HTTP requests for posts and their comments.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for post creation requests.
type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// CommentPayload defines the structure for comment requests.
type CommentPayload struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// GetAll handles the request to list every post.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetAllPosts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Create handles the request to create a new post.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Title == "" || payload.Author == "" {
		respondError(w, http.StatusBadRequest, "Title and author are required")
		return
	}

	post, err := h.service.CreatePost(payload.Title, payload.Content, payload.Author)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Error().Err(err).Str("author", payload.Author).Msg("Failed to create post")
		respondError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

// AddComment handles the request to append a comment to a post.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Text == "" {
		respondError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	comments, err := h.service.AddComment(postID, payload.Author, payload.Text)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			respondError(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to add comment")
		respondError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	respondJSON(w, http.StatusOK, comments)
}

// Delete handles the request to delete a post. Only the post's author may
// delete it; the authenticated username decides.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	if err := h.service.DeletePost(postID, claims.Username); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			respondError(w, http.StatusNotFound, "Post not found.")
			return
		}
		if errors.Is(err, services.ErrNotPostAuthor) {
			respondError(w, http.StatusForbidden, "Only the author can delete this post.")
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to delete post")
		respondError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
