package main

import (
	"context"
	"log"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/cache"
	"horizon/internal/infrastructure/docstore"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Store *docstore.Store
	Cache *cache.SummaryCache // nil when caching is disabled

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	AccountHandler *httphandlers.AccountHandler
	LinkingHandler *httphandlers.LinkingHandler

	// Auth
	Sessions *auth.Sessions

	// Services (for the scheduler job provider)
	AggregationService *aggregation.Service

	// Repositories (for the scheduler job provider)
	UserRepo *docstore.UserRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to the document store
	store, err := docstore.New(ctx, docstore.Config{
		CredentialsFile: cfg.Docstore.CredentialsFile,
		UsersCollection: cfg.Docstore.UsersCollection,
		BanksCollection: cfg.Docstore.BanksCollection,
	})
	if err != nil {
		return nil, err
	}
	log.Println("Connected to document store")

	// Initialize repositories
	userRepo := docstore.NewUserRepository(store)
	bankRepo := docstore.NewBankRepository(store)

	// Initialize the aggregation provider client
	provider := aggregator.NewClient(aggregator.Config{
		ClientID:     cfg.Aggregator.ClientID,
		ClientSecret: cfg.Aggregator.ClientSecret,
		BaseURL:      cfg.Aggregator.BaseURL,
	})

	// Initialize the summary cache (if enabled)
	var summaryCache *cache.SummaryCache
	if cfg.Cache.Enabled {
		summaryCache, err = cache.New(cache.Config{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			store.Close()
			return nil, err
		}
		log.Println("Summary cache enabled")
	}

	// Initialize domain services. The nil-interface dance keeps the
	// services' cache checks meaningful when caching is disabled.
	var aggCache aggregation.SummaryCache
	var invalidator linking.SummaryInvalidator
	if summaryCache != nil {
		aggCache = summaryCache
		invalidator = summaryCache
	}

	userService := user.NewService(userRepo)
	aggregationService := aggregation.NewService(bankRepo, provider, aggCache)
	linkingService := linking.NewService(provider, bankRepo, invalidator)

	// Initialize auth components
	sessions := auth.NewSessions(cfg.Session.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userService, sessions)
	accountHandler := httphandlers.NewAccountHandler(aggregationService)
	linkingHandler := httphandlers.NewLinkingHandler(linkingService, userService)

	return &Dependencies{
		Store:              store,
		Cache:              summaryCache,
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		LinkingHandler:     linkingHandler,
		Sessions:           sessions,
		AggregationService: aggregationService,
		UserRepo:           userRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			log.Printf("Error closing cache: %v", err)
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			log.Printf("Error closing document store: %v", err)
		}
	}
}
