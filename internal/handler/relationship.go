package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flatgram/internal/httputil"
	"flatgram/internal/model"
	"flatgram/internal/service"
	"flatgram/internal/transport/http/middleware"
)

// RelationshipHandler exposes follow/unfollow/block/unblock.
type RelationshipHandler struct {
	relationshipService *service.RelationshipService
}

func NewRelationshipHandler(relationshipService *service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
	}
}

// Follow follows a user, or files a follow request when they are private
// POST /users/{username}/follow
func (h *RelationshipHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := chi.URLParam(r, "username")

	outcome, err := h.relationshipService.Follow(r.Context(), actor, target)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSelfRelationship):
			httputil.WriteBadRequest(w, "Cannot follow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrBlockedRelationship):
			httputil.WriteForbidden(w, "Relationship blocked")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrRequestAlreadyPending):
			httputil.WriteConflict(w, "Follow request already pending")
		default:
			log.Printf("[RelationshipHandler] Follow: %v", err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	message := "Now following " + target
	if outcome == model.FollowRequested {
		message = "Follow request sent to " + target
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"outcome": string(outcome),
		"message": message,
	})
}

// Unfollow removes the follow edge
// DELETE /users/{username}/follow
func (h *RelationshipHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := chi.URLParam(r, "username")

	if err := h.relationshipService.Unfollow(r.Context(), actor, target); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[RelationshipHandler] Unfollow: %v", err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unfollowed " + target,
	})
}

// Block blocks a user and severs any follow edge in either direction
// POST /users/{username}/block
func (h *RelationshipHandler) Block(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := chi.URLParam(r, "username")

	if err := h.relationshipService.Block(r.Context(), actor, target); err != nil {
		switch {
		case errors.Is(err, model.ErrSelfRelationship):
			httputil.WriteBadRequest(w, "Cannot block yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadyBlocked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[RelationshipHandler] Block: %v", err)
			httputil.WriteInternalError(w, "Failed to block user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Blocked " + target,
	})
}

// Unblock removes a user from the block list
// DELETE /users/{username}/block
func (h *RelationshipHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	target := chi.URLParam(r, "username")

	if err := h.relationshipService.Unblock(r.Context(), actor, target); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrNotBlocked):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[RelationshipHandler] Unblock: %v", err)
			httputil.WriteInternalError(w, "Failed to unblock user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unblocked " + target,
	})
}
