package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"smew/internal/mcp"
	"smew/internal/sim"
	"smew/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9100)")
	return cmd
}

func runServe(cmd *cobra.Command, metricsAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}

	var db store.Store
	if strings.TrimSpace(cfg.Store.DSN) != "" {
		if db, err = openStore(ctx, cfg); err != nil {
			return err
		}
		defer db.Close(context.Background())
	}

	var metrics *sim.Metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = sim.NewMetrics(reg)
		srv := newMetricsServer(metricsAddr, reg, logger)
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop(context.Background())
	}

	server := mcp.NewServer(cfg, db, logger, metrics, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
