package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akorchak/privascope/internal/server"
)

var serveConfig string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to service config YAML")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	Long:  "Runs privascope as a JSON HTTP service.\nSupports hot-reload of the rules and weights files.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig(serveConfig)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	reloader, err := server.NewReloader(srv, srv.WatchPaths())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down analysis server...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "privascope analysis server listening on %s\n", cfg.Listen)
	if cfg.Judge.APIURL != "" {
		fmt.Fprintf(os.Stderr, "Judge: %s (%s)\n", cfg.Judge.APIURL, cfg.Judge.Model)
	} else {
		fmt.Fprintln(os.Stderr, "Judge: disabled (neutral category scores)")
	}
	if cfg.RulesPath != "" || cfg.WeightsPath != "" {
		fmt.Fprintln(os.Stderr, "Hot-reload enabled for rules/weights files")
	}
	fmt.Fprintln(os.Stderr)

	return srv.ListenAndServe()
}
