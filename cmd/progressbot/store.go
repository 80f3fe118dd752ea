package main

import (
	"context"
	"fmt"
	"log"

	"github.com/yukikurage/progress-bot/internal/config"
	"github.com/yukikurage/progress-bot/internal/database"
	"github.com/yukikurage/progress-bot/internal/repository"
	"github.com/yukikurage/progress-bot/internal/services"
)

// openRepository connects the configured backend. The returned close function releases it.
func openRepository(ctx context.Context, cfg *config.Config) (repository.DocumentRepository, func() error, error) {
	switch cfg.StoreDriver {
	case "", "file":
		log.Printf("Using file store %s", cfg.DataFile)
		return repository.NewFileDocumentRepository(cfg.DataFile), func() error { return nil }, nil

	case "mongo", "mongodb":
		client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using mongo store %s", cfg.MongoDatabase)
		closer := func() error { return client.Disconnect(context.Background()) }
		return repository.NewMongoDocumentRepository(client.Database(cfg.MongoDatabase)), closer, nil

	case "mysql", "postgres", "sqlite":
		if err := database.Connect(cfg); err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(database.GetDB()); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		return repository.NewGormDocumentRepository(database.GetDB()), database.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (*services.Store, func() error, error) {
	repo, closer, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewStore(repo, cfg.AdminIDs), closer, nil
}

// newSender delivers through the chat transport when an outbound URL is configured, and only
// logs otherwise.
func newSender(cfg *config.Config) services.Sender {
	if cfg.ChatOutboundURL == "" {
		return services.LogSender{}
	}
	return services.NewHTTPSender(cfg.ChatOutboundURL, cfg.WebhookSecret)
}
