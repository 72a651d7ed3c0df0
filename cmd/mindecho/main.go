// Package main implements the mindecho CLI: the HTTP API, the terminal UI and
// one-shot reflection analysis.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mindecho/internal/adapters/llm"
	"github.com/PabloGalante/mindecho/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindecho/internal/app/journal"
	"github.com/PabloGalante/mindecho/internal/app/reflection"
	"github.com/PabloGalante/mindecho/internal/config"
	"github.com/PabloGalante/mindecho/internal/observability"
)

var (
	// configPath points at an optional YAML config file
	configPath string
	// logLevel overrides the configured level when set
	logLevel string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mindecho",
	Short: "Reflective journaling with AI pattern insights",
	Long: `mindecho turns short journal reflections into structured insights:
a named thought pattern, an observation, a suggestion and an echo score.

Without GEMINI_API_KEY (or API_KEY) a canned mock analysis is used.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads configuration and sets up the global logger on w.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	observability.Configure(w, cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

type services struct {
	reflections *reflection.Service
	journal     *journal.Service
}

// buildServices wires the analysis client and session store once, at startup.
// sessionTTL is the idle lifetime of a session; memory.NoExpiration keeps it
// until it is cleared.
func buildServices(ctx context.Context, cfg *config.Config, sessionTTL time.Duration) (*services, error) {
	client, err := llm.NewAnalysisClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing analysis client: %w", err)
	}

	sessionStore := memory.NewSessionStore(sessionTTL, reflection.SessionEvicted)

	return &services{
		reflections: reflection.NewService(client, sessionStore),
		journal:     journal.NewService(sessionStore),
	}, nil
}
