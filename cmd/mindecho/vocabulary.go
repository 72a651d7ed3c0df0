package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mindecho/internal/domain"
)

var vocabJSON bool

func init() {
	rootCmd.AddCommand(vocabularyCmd)
	vocabularyCmd.Flags().BoolVar(&vocabJSON, "json", false, "Output as JSON")
}

// vocabularyCmd lists the selectable interests and cycle phases
var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List the interests and cycle phases accepted by analyze",
	RunE: func(cmd *cobra.Command, args []string) error {
		if vocabJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"interests":    domain.Interests,
				"cycle_phases": domain.CyclePhases,
			})
		}

		fmt.Println("Interests:")
		for _, i := range domain.Interests {
			fmt.Printf("  %s\n", i)
		}
		fmt.Println("\nCycle phases:")
		for _, p := range domain.CyclePhases {
			fmt.Printf("  %s\n", p)
		}
		return nil
	},
}
