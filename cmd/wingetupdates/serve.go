package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wingettools/wingetupdatesinstaller/internal/common/logger"
	"github.com/wingettools/wingetupdatesinstaller/internal/server"
)

var (
	// serveAddr overrides the configured listen address
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the update service",
	Long: `Serve the JSON API for checking and installing updates.

The service listens on :10001 by default and shuts down cleanly
on SIGINT or SIGTERM.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	checker, err := newChecker(cfg)
	if err != nil {
		logger.Error("failed to initialize checker: %v", err)
		os.Exit(1)
	}

	srv := server.New(checker, addr, server.WithSilent(cfg.Updates.Silent))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("listening on %s", addr)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}
}
