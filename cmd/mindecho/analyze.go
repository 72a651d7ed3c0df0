package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mindecho/internal/adapters/llm"
	"github.com/PabloGalante/mindecho/internal/domain"
)

var (
	// analyze command flags
	anText      string
	anPhase     string
	anInterests []string
	anJSON      bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&anText, "text", "", "Reflection text, or - to read stdin (required)")
	analyzeCmd.Flags().StringVar(&anPhase, "phase", "", "Cycle phase, e.g. \"Mid-Cycle\" or mid_cycle")
	analyzeCmd.Flags().StringSliceVar(&anInterests, "interest", nil, "Interest area (repeatable, up to 3)")
	analyzeCmd.Flags().BoolVar(&anJSON, "json", false, "Output the insight as JSON")
	_ = analyzeCmd.MarkFlagRequired("text")
}

// analyzeCmd runs a single reflection through the configured analysis client
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one reflection and print the insight",
	Long: `Analyze one reflection without starting a session.

Examples:
  # Analyze with two interests
  mindecho analyze --text "I keep replaying the meeting" --interest music --interest reading

  # Pipe the text in and get JSON back
  echo "Slept badly again" | mindecho analyze --text - --phase pre_menstrual --json`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	in, err := buildReflectionInput(cmd.InOrStdin(), anText, anPhase, anInterests)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := llm.NewAnalysisClient(ctx, cfg)
	if err != nil {
		return err
	}

	insight, err := client.Analyze(ctx, in)
	if err != nil {
		return err
	}

	if anJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(insight)
	}
	printInsight(cmd.OutOrStdout(), insight)
	return nil
}

// buildReflectionInput parses flag values into a validated input.
func buildReflectionInput(stdin io.Reader, text, phase string, interests []string) (domain.ReflectionInput, error) {
	if text == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return domain.ReflectionInput{}, fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(b))
	}

	p, err := domain.ParseCyclePhase(phase)
	if err != nil {
		return domain.ReflectionInput{}, fmt.Errorf("%w: %q", err, phase)
	}

	parsed := make([]domain.Interest, 0, len(interests))
	for _, raw := range interests {
		i, err := domain.ParseInterest(raw)
		if err != nil {
			return domain.ReflectionInput{}, fmt.Errorf("%w: %q", err, raw)
		}
		parsed = append(parsed, i)
	}

	in := domain.ReflectionInput{
		Text:       text,
		CyclePhase: p,
		Interests:  parsed,
	}
	if err := in.Validate(); err != nil {
		return domain.ReflectionInput{}, err
	}
	return in, nil
}

func printInsight(w io.Writer, in domain.InsightResult) {
	fmt.Fprintf(w, "Pattern:     %s\n", in.Pattern)
	fmt.Fprintf(w, "Mood:        %s\n", in.MoodIndicator)
	fmt.Fprintf(w, "Echo score:  %.0f\n\n", in.EchoScore)
	fmt.Fprintf(w, "%s\n\n", in.ReflectionInsight)
	fmt.Fprintf(w, "Suggestion:  %s\n", in.Suggestion)
	fmt.Fprintf(w, "Activity:    %s\n", in.ActivitySuggestion)
}
