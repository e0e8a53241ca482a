package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flatgram/internal/httputil"
	"flatgram/internal/model"
	"flatgram/internal/service"
	"flatgram/internal/transport/http/middleware"
)

// UserHandler exposes profile reads and profile edits.
type UserHandler struct {
	userService *service.UserService
	feedService *service.FeedService
}

func NewUserHandler(userService *service.UserService, feedService *service.FeedService) *UserHandler {
	return &UserHandler{
		userService: userService,
		feedService: feedService,
	}
}

// GetProfile returns a user's profile with the viewer's relationship flags
// GET /users/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	username := chi.URLParam(r, "username")

	profile, err := h.userService.GetProfile(r.Context(), username, viewer)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] GetProfile: %v", err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Search finds users by username substring
// GET /users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteBadRequest(w, "Query parameter q is required")
		return
	}

	results, err := h.userService.Search(r.Context(), query, viewer)
	if err != nil {
		log.Printf("[UserHandler] Search: %v", err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": results})
}

// UserPosts returns the posts authored by a user
// GET /users/{username}/posts
func (h *UserHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	username := chi.URLParam(r, "username")

	posts, err := h.feedService.UserPosts(r.Context(), username, viewer)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] UserPosts: %v", err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Blocked returns the current user's blocked list
// GET /me/blocked
func (h *UserHandler) Blocked(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	blocked, err := h.userService.BlockedUsers(r.Context(), username)
	if err != nil {
		log.Printf("[UserHandler] Blocked: %v", err)
		httputil.WriteInternalError(w, "Failed to get blocked users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"blocked_users": blocked})
}

// UpdateBio edits the current user's bio
// PUT /me/bio
func (h *UserHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.UpdateBio(r.Context(), username, req.Bio); err != nil {
		log.Printf("[UserHandler] UpdateBio: %v", err)
		httputil.WriteInternalError(w, "Failed to update bio")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Profile updated",
	})
}

// SetPrivacy flips the current user's account between public and private
// PUT /me/privacy
func (h *UserHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SetPrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.SetPrivacy(r.Context(), username, req.IsPrivate); err != nil {
		log.Printf("[UserHandler] SetPrivacy: %v", err)
		httputil.WriteInternalError(w, "Failed to update privacy")
		return
	}

	status := "public"
	if req.IsPrivate {
		status = "private"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Account is now " + status,
	})
}
