package handler

import (
	"log"
	"net/http"

	"flatgram/internal/httputil"
	"flatgram/internal/service"
	"flatgram/internal/transport/http/middleware"
)

// FeedHandler exposes the read-only post views.
type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed returns posts from accounts the viewer follows
// GET /feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	posts, err := h.feedService.Feed(r.Context(), viewer)
	if err != nil {
		log.Printf("[FeedHandler] GetFeed: %v", err)
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// GetSaved returns the viewer's saved posts
// GET /me/saved
func (h *FeedHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	posts, err := h.feedService.SavedPosts(r.Context(), viewer)
	if err != nil {
		log.Printf("[FeedHandler] GetSaved: %v", err)
		httputil.WriteInternalError(w, "Failed to get saved posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}
