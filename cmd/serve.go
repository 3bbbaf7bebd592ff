package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"srhbot/api"
	"srhbot/config"
	"srhbot/content"
	"srhbot/database"
	"srhbot/engine"
	"srhbot/metrics"
	"srhbot/middleware"
	"srhbot/repository"
	"srhbot/services"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(cfgFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg := &config.AppConfig
		if servePort != "" {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := database.Init()
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	collector := metrics.NewCollector()
	lib, err := content.NewLibrary(cfg.Content.Dir, libraryOptions(cfg, collector)...)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	defaults := engine.UserProfile{
		AgeGroup:    engine.AgeGroup(cfg.Engine.DefaultAgeGroup),
		Personality: engine.PersonalityID(cfg.Engine.DefaultPersonality),
	}
	profileRepo := repository.NewProfileRepository(db, defaults)
	chatRepo := repository.NewGormChatRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	responder, err := services.NewResponderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating responder: %w", err)
	}
	chatService := services.NewChatService(lib, profileRepo, chatRepo, responder, collector)
	log.Println("INFO: [Main] Services initialized.")

	if cfg.Content.Watch && cfg.Content.Dir != "" {
		watcher, err := content.NewWatcher(cfg.Content.Dir, cfg.Content.Debounce, lib)
		if err != nil {
			return fmt.Errorf("watching content: %w", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Printf("ERROR: [Main] Content watcher stopped: %v", err)
			}
		}()
		log.Printf("INFO: [Main] Watching %s for content changes.", cfg.Content.Dir)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	var (
		obs            middleware.RequestObserver
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		obs = collector
		metricsHandler = collector.Handler()
	}
	handler := api.NewAPIHandler(chatService, profileRepo, lib, cfg.History.Limit)
	router := api.NewRouter(handler, obs, metricsHandler)

	port := cfg.Server.Port
	if port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("INFO: [Main] Starting server on port %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("INFO: [Main] Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func libraryOptions(cfg *config.Config, collector *metrics.Collector) []content.LibraryOption {
	opts := []content.LibraryOption{
		content.WithReloadHook(collector.ObserveReload),
	}
	if cfg.Engine.Seed != 0 {
		opts = append(opts, content.WithEngineOptions(engine.WithRandom(engine.NewSeededRandom(cfg.Engine.Seed))))
	}
	return opts
}
