package cmd

import (
	"context"
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
	"github.com/kochimetro/induction/simulator"
)

var (
	simSize     int
	simSeed     int64
	simRequired int
	simStandby  int
	simDate     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Plan a synthetic roster end to end",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simSize, "size", 25, "fleet size")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "random seed")
	simulateCmd.Flags().IntVar(&simRequired, "required", 15, "trains required in service")
	simulateCmd.Flags().IntVar(&simStandby, "standby", 4, "standby trains")
	simulateCmd.Flags().StringVar(&simDate, "date", "", "service date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Logging.Apply(); err != nil {
		return err
	}

	date := simulator.Today()
	if simDate != "" {
		if date, err = model.ParseDate(simDate); err != nil {
			return err
		}
	}
	fleetCfg := simulator.DefaultFleetConfig()
	fleetCfg.Size = simSize
	fleetCfg.Seed = simSeed
	input := simulator.Input(fleetCfg, date, simRequired, simStandby)

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.Start(ctx)

	night, err := svc.RunNight(ctx, input, slotting.DayRegular)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), night)
}
