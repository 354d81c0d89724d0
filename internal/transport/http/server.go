package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"mencrytoo/internal/action"
	"mencrytoo/internal/api"
	"mencrytoo/internal/cache"
	"mencrytoo/internal/config"
	"mencrytoo/internal/loader"
	"mencrytoo/internal/media"
	"mencrytoo/internal/session"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Pick the cache backend: Redis when configured, memory otherwise
	var store cache.Store
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		store = cache.NewRedisStore(client)
		log.Println("View cache backed by Redis")
	} else {
		store = cache.NewMemoryStore()
		log.Println("View cache in memory")
	}

	// 3. Wire the core
	apiClient := api.NewClient(cfg.APIBaseURL, nil)
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionMaxAge)
	images := media.NewProcessor(cfg.MaxUploadSize)

	loaders := loader.New(apiClient, store)
	actions := action.NewDispatcher(apiClient, store, sessions, images)

	// 4. Routes and server
	router := NewRouter(RouterConfig{
		Loaders:       loaders,
		Actions:       actions,
		Sessions:      sessions,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting gateway on %s (backend %s)", addr, cfg.APIBaseURL)
	return stdhttp.ListenAndServe(addr, router)
}
