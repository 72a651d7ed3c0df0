package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/mindecho/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindecho/internal/adapters/tui"
)

var tuiLogFile string

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file (logs are discarded otherwise)")
}

// tuiCmd runs the interactive journal
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Journal interactively in the terminal",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the alt screen owns stdout, so logs go elsewhere
	var w io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		w = f
	}

	cfg, err := loadConfig(w)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	// one user per process: the session lives until ctrl+r or exit
	svcs, err := buildServices(ctx, cfg, memory.NoExpiration)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx, svcs.reflections), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
