package handler

import (
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

// RequestHandler exposes the follow-request workflow to its addressee.
type RequestHandler struct {
	requestService *service.RequestService
}

func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// List returns the current user's incoming pending requests
// GET /requests
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	pending, err := h.requestService.Pending(r.Context(), username)
	if err != nil {
		log.Printf("[RequestHandler] List: %v", err)
		httputil.WriteInternalError(w, "Failed to list follow requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"requests": pending})
}

// Accept resolves a pending request into a follow edge
// POST /requests/{id}/accept
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid request ID")
		return
	}

	if err := h.requestService.Accept(r.Context(), id, username); err != nil {
		switch {
		case errors.Is(err, model.ErrRequestNotFound):
			httputil.WriteNotFound(w, "Follow request not found")
		case errors.Is(err, model.ErrNotRequestAddressee):
			httputil.WriteForbidden(w, "Request is addressed to another user")
		case errors.Is(err, model.ErrBlockedRelationship):
			httputil.WriteForbidden(w, "Relationship blocked")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			log.Printf("[RequestHandler] Accept: %v", err)
			httputil.WriteInternalError(w, "Failed to accept follow request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Follow request accepted",
	})
}
