package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/app"
	"github.com/kochimetro/induction/config"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/slotting"
	"github.com/kochimetro/induction/pkg/export"
)

var (
	planInputPath string
	planFormat    string
	planDay       string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one nightly planning cycle from an input file",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planInputPath, "input", "i", "", "planning input file (JSON)")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "json", "output format: json or csv")
	planCmd.Flags().StringVar(&planDay, "day", string(slotting.DayRegular), "service day profile: regular or public_holiday")
	_ = planCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Logging.Apply(); err != nil {
		return err
	}

	data, err := os.ReadFile(planInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input model.PlanningInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.Start(ctx)

	night, err := svc.RunNight(ctx, input, slotting.ServiceDay(planDay))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch planFormat {
	case "json":
		return export.WriteJSON(out, night)
	case "csv":
		if err := export.WriteRolesCSV(out, night.Plan); err != nil {
			return err
		}
		return export.WriteScheduleCSV(out, night.Schedule)
	default:
		return fmt.Errorf("unknown format %s", planFormat)
	}
}
