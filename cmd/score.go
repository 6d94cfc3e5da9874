package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
	"github.com/kochimetro/induction/pkg/export"
)

var scoreInputPath string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a roster without planning, for inspection",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreInputPath, "input", "i", "", "planning input file (JSON)")
	_ = scoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(scoreInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input model.PlanningInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	ref := input.ServiceDate.Time
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	scores := readiness.EvaluateAll(input.Trains, ref)
	return export.WriteJSON(cmd.OutOrStdout(), scores)
}
