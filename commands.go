package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"deal-rater/internal/auth"
	"deal-rater/internal/config"
	"deal-rater/internal/repository"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	tokenUser  string

	rootCmd = &cobra.Command{
		Use:   "deal-rater",
		Short: "Peer-rated deal marketplace API",
		Long: `deal-rater serves the posts and ratings API. Authors publish a post
by rating other users' posts first.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema for the configured database",
		RunE:  runMigrate,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for a user, for local testing",
		RunE:  runToken,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user ID to put in the token subject")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	app, err := newApplication(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.cleanup(); err != nil {
			utils.Warn("failed to close store", map[string]any{"error": err.Error()})
		}
	}()

	srv := &http.Server{
		Addr:    getPort(cfg),
		Handler: app.router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("starting deal rater server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		utils.Info("shutting down server", map[string]any{"timeout": cfg.Server.ShutdownTimeout.String()})
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "memory" {
		return fmt.Errorf("migrate: the memory store has no schema; set database.driver to sqlite, postgres or mysql")
	}

	repo, err := repository.OpenGorm(repository.GormConfig{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return err
	}
	utils.Info("schema migrated", map[string]any{"driver": cfg.Database.Driver})
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	token, err := issuer.IssueToken(tokenUser)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
