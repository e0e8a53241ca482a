package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"flatgram/internal/handler"
	"flatgram/internal/httputil"
	authmw "flatgram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	RelationshipHandler *handler.RelationshipHandler
	RequestHandler      *handler.RequestHandler
	PostHandler         *handler.PostHandler
	FeedHandler         *handler.FeedHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Everything else runs as an authenticated session
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Get("/me", cfg.AuthHandler.Me)
		r.Put("/me/bio", cfg.UserHandler.UpdateBio)
		r.Put("/me/privacy", cfg.UserHandler.SetPrivacy)
		r.Get("/me/blocked", cfg.UserHandler.Blocked)
		r.Get("/me/saved", cfg.FeedHandler.GetSaved)

		r.Route("/users", func(r chi.Router) {
			r.Get("/search", cfg.UserHandler.Search)
			r.Get("/{username}", cfg.UserHandler.GetProfile)
			r.Get("/{username}/posts", cfg.UserHandler.UserPosts)
			r.Post("/{username}/follow", cfg.RelationshipHandler.Follow)
			r.Delete("/{username}/follow", cfg.RelationshipHandler.Unfollow)
			r.Post("/{username}/block", cfg.RelationshipHandler.Block)
			r.Delete("/{username}/block", cfg.RelationshipHandler.Unblock)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", cfg.RequestHandler.List)
			r.Post("/{id}/accept", cfg.RequestHandler.Accept)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", cfg.PostHandler.Create)
			r.Get("/{id}", cfg.PostHandler.GetByID)
			r.Post("/{id}/like", cfg.PostHandler.ToggleLike)
			r.Post("/{id}/comments", cfg.PostHandler.AddComment)
			r.Post("/{id}/save", cfg.PostHandler.Save)
			r.Delete("/{id}/save", cfg.PostHandler.Unsave)
		})

		r.Get("/feed", cfg.FeedHandler.GetFeed)
	})

	return r
}
