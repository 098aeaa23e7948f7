package main

import (
	"context"
	"fmt"
	"os"

	"deal-rater/internal/auth"
	"deal-rater/internal/config"
	lifecycle "deal-rater/internal/lifecycleService"
	profile "deal-rater/internal/profileService"
	rating "deal-rater/internal/ratingService"
	"deal-rater/internal/repository"
	"deal-rater/internal/server"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// application holds everything serve needs, wired from one config
type application struct {
	router  *gin.Engine
	cleanup func() error
}

// openStore returns the configured DealDB, a health check and a close function
func openStore(cfg *config.Config) (repository.DealDB, func(context.Context) error, func() error, error) {
	if cfg.Database.Driver == "memory" {
		return repository.NewMemoryRepo(), nil, func() error { return nil }, nil
	}

	repo, err := repository.OpenGorm(repository.GormConfig{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	// sqlite is embedded, so serve creates its schema; networked databases go through the migrate command
	if cfg.Database.Driver == "sqlite" {
		if err := repo.Migrate(); err != nil {
			_ = repo.Close()
			return nil, nil, nil, err
		}
	}
	return repo, repo.Ping, repo.Close, nil
}

// newApplication wires the store, services and router
func newApplication(cfg *config.Config) (*application, error) {
	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	repo, health, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	policy := lifecycle.FixedPolicy{Quota: cfg.Policy.RatingsToPublish, Threshold: cfg.Policy.RatedThreshold}
	lifecycleSvc := lifecycle.NewLifecycleService(repo, policy)
	ratingSvc := rating.NewRatingService(repo, lifecycleSvc, rating.Options{
		AcceptLateRatings: cfg.Policy.LateRatings == config.LateRatingsAccept,
		PageSize:          cfg.Policy.PageSize,
	})
	profileSvc := profile.NewProfileService(repo)

	router := server.SetupRouter(server.Services{
		Lifecycle: lifecycleSvc,
		Ratings:   ratingSvc,
		Profiles:  profileSvc,
	}, issuer, server.Options{
		RatingsPerMinute: cfg.Server.RatingsPerMinute,
		HealthCheck:      health,
	})

	utils.Info("application wired", map[string]any{
		"driver":             cfg.Database.Driver,
		"ratings_to_publish": cfg.Policy.RatingsToPublish,
		"rated_threshold":    cfg.Policy.RatedThreshold,
		"late_ratings":       cfg.Policy.LateRatings,
	})
	return &application{router: router, cleanup: closeStore}, nil
}

// getPort returns the listen address for the configured port
func getPort(cfg *config.Config) string {
	return fmt.Sprintf(":%s", cfg.Server.Port)
}
