package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flatgram/internal/httputil"
	"flatgram/internal/model"
	"flatgram/internal/service"
	"flatgram/internal/transport/http/middleware"
)

// PostHandler exposes the post lifecycle: create, view, like, comment, save.
type PostHandler struct {
	contentService *service.ContentService
}

func NewPostHandler(contentService *service.ContentService) *PostHandler {
	return &PostHandler{
		contentService: contentService,
	}
}

// Create makes a new post
// POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.contentService.CreatePost(r.Context(), author, req)
	if err != nil {
		log.Printf("[PostHandler] Create: %v", err)
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetByID returns a post with comments and viewer flags
// GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	view, err := h.contentService.GetPost(r.Context(), postID, viewer)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		default:
			log.Printf("[PostHandler] GetByID: %v", err)
			httputil.WriteInternalError(w, "Failed to get post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// ToggleLike flips the viewer's like on a post
// POST /posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	liked, err := h.contentService.ToggleLike(r.Context(), postID, actor)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[PostHandler] ToggleLike: %v", err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LikeResponse{
		PostID: postID,
		Liked:  liked,
	})
}

// AddComment appends a comment to a post
// POST /posts/{id}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Text == "" {
		httputil.WriteBadRequest(w, "Comment text is required")
		return
	}

	comment, err := h.contentService.AddComment(r.Context(), postID, author, req.Text)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[PostHandler] AddComment: %v", err)
		httputil.WriteInternalError(w, "Failed to add comment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Save adds a post to the viewer's saved list
// POST /posts/{id}/save
func (h *PostHandler) Save(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.contentService.SavePost(r.Context(), postID, actor); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrAlreadySaved):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[PostHandler] Save: %v", err)
			httputil.WriteInternalError(w, "Failed to save post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post saved",
	})
}

// Unsave removes a post from the viewer's saved list
// DELETE /posts/{id}/save
func (h *PostHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.contentService.UnsavePost(r.Context(), postID, actor); err != nil {
		switch {
		case errors.Is(err, model.ErrNotSaved):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[PostHandler] Unsave: %v", err)
			httputil.WriteInternalError(w, "Failed to unsave post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post unsaved",
	})
}

func parsePostID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return 0, false
	}
	return id, true
}
