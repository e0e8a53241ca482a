package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"flatgram/internal/config"
	"flatgram/internal/handler"
	"flatgram/internal/persist"
	"flatgram/internal/service"
	"flatgram/internal/store"
)

// Run loads configuration and durable state, wires every component, and
// serves until the process exits.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gateway, err := persist.NewFileGateway(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	st := store.New()
	if err := gateway.Load(context.Background(), st); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	log.Printf("Loaded data from %s", cfg.DataDir)

	userService := service.NewUserService(st, gateway)
	authService := service.NewAuthService(st, cfg)
	relationshipService := service.NewRelationshipService(st, gateway)
	requestService := service.NewRequestService(st, gateway)
	contentService := service.NewContentService(st, gateway)
	feedService := service.NewFeedService(st)

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		UserHandler:         handler.NewUserHandler(userService, feedService),
		RelationshipHandler: handler.NewRelationshipHandler(relationshipService),
		RequestHandler:      handler.NewRequestHandler(requestService),
		PostHandler:         handler.NewPostHandler(contentService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		JWTSecret:           cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
