package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/handler"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/routes"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log := loadConfig()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// Fonts are read once and shared by every render; a missing file only
	// disables the PDF download.
	if _, err := a.fonts.Load(); err != nil {
		log.Error().Err(err).Str("dir", cfg.Document.FontDir).Msg("delivery note fonts unavailable")
	}

	proxies, err := handler.NewProxyTrust(cfg.App.TrustedProxies)
	if err != nil {
		return err
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(a.auth),
		Order:        handler.NewOrderHandler(a.orders),
		Customer:     handler.NewCustomerHandler(a.customers),
		DeliveryNote: handler.NewDeliveryNoteHandler(a.deliveryNotes, cfg.App.PublicURL, proxies),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: a.jwt,
		Cfg:        cfg,
		Log:        log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("service", cfg.App.Name).Str("port", port).Str("env", cfg.App.Env).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
