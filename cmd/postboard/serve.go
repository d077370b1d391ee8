package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/api"
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/config"
	"github.com/xzzpig/postboard/internal/core/crypto"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/i18n"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := loadConfig()
		if err != nil {
			// logger is not initialized yet
			os.Stderr.WriteString(err.Error() + "\n")
			os.Exit(1)
		}
		log := logger.Named("cmd.serve")
		defer logger.Sync()
		log.Info("Starting postboard server...", zap.String("environment", cfg.App.Environment))

		if viper.ConfigFileUsed() != "" {
			config.Watch(func(level string, levels config.LogLevels) {
				logger.ReloadLevels(logger.LogLevel(level), levels)
			})
		}

		// Initialize i18n
		if err := i18n.Init(); err != nil {
			log.Fatal("Failed to initialize i18n", zap.Error(err))
		}
		log.Info("i18n initialized successfully")

		// Initialize database with configured options
		database, err := openDB(cfg, db.ParseMigrationMode(cfg.Database.MigrationMode))
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.CloseDB(database)

		hasher, err := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)
		if err != nil {
			log.Fatal("Failed to initialize password hasher", zap.Error(err))
		}
		if cfg.Auth.JWTSecret == "" {
			log.Warn("auth.jwt_secret is empty, using a random signing key; tokens will not survive a restart")
		}
		key, err := crypto.SigningKey(cfg.Auth.JWTSecret)
		if err != nil {
			log.Fatal("Failed to derive signing key", zap.Error(err))
		}

		deps := api.RouterDeps{
			DB:     database,
			Config: cfg,
			Hasher: hasher,
			Tokens: auth.NewTokenCodec(key, cfg.Auth.TokenTTL),
		}
		if cfg.Server.Metrics {
			deps.Metrics = api.NewMetrics(database.SQL())
		}

		r, err := api.SetupRouter(deps)
		if err != nil {
			log.Fatal("Failed to set up router", zap.Error(err))
		}

		addr := cfg.Addr()
		log.Info("Server starting", zap.String("address", addr))

		srv := &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutdown signal received, stopping server...")

		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}

		log.Info("Server exiting")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
