package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"smew/internal/config"
	"smew/internal/sim"
	"smew/internal/store"
)

type Server struct {
	cfg     *config.ProjectConfig
	db      store.Store
	logger  *slog.Logger
	metrics *sim.Metrics
	mcp     *sdk.Server
}

// NewServer exposes scenarios and transcripts as MCP tools. cfg and db may be
// nil; scenarios are then addressed by path and transcript tools fail.
func NewServer(cfg *config.ProjectConfig, db store.Store, logger *slog.Logger, metrics *sim.Metrics, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		metrics: metrics,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "smew",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
