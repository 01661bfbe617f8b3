package app

import (
	"log"

	"coffeeblog/internal/cache"
	"coffeeblog/internal/config"
	"coffeeblog/internal/database"
	"coffeeblog/internal/repository"
	"coffeeblog/internal/service"
	"coffeeblog/internal/storage"
)

// App wires the process: database, object storage, cache, repositories
// and services. Redis being down is tolerated; the cache pointer stays
// nil and every read goes straight to Postgres.
func App(cfg *config.Config) (*database.DB, storage.Storage, *service.Service) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	store, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("could not initialize MinIO: %v", err)
	}

	postCache, err := cache.NewPostCache(cfg)
	if err != nil {
		log.Printf("redis unavailable, running without post cache: %v", err)
		postCache = nil
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, postCache)

	return db, store, services
}
