package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochimetro/induction/api/planning"
	"github.com/kochimetro/induction/app"
	"github.com/kochimetro/induction/config"
	"github.com/kochimetro/induction/infra/logger"
)

var apiToken string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&apiToken, "token", "", "bearer token protecting the API (empty disables auth)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Logging.Apply(); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.Start(ctx)

	logg := logger.New("serve")
	srv := &http.Server{
		Addr:              cfg.API.Address,
		Handler:           planning.NewHandler(svc, apiToken),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.Errorf("server shutdown: %v", err)
		}
	}()
	logg.Infof("planning API listening on %s", cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
