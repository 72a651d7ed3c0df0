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

	httpadapter "github.com/PabloGalante/mindecho/internal/adapters/http"
	"github.com/PabloGalante/mindecho/internal/observability"
)

const shutdownTimeout = 10 * time.Second

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (defaults to PORT or 8080)")
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MindEcho HTTP API",
	Long: `Run the HTTP API.

Examples:
  # Serve on the configured port
  mindecho serve

  # Serve on another port with a config file
  mindecho serve --port 9090 --config mindecho.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := buildServices(ctx, cfg, cfg.SessionTTL)
	if err != nil {
		return err
	}

	handler := httpadapter.NewServer(svcs.reflections, svcs.journal, httpadapter.Options{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := observability.Logger()
	errCh := make(chan error, 1)
	go func() {
		log.Info("MindEcho API listening", "port", cfg.Port, "analysis_mode", svcs.reflections.Mode())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
