package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var ErrMissingCurationService = errors.New("curation service is required")

// Server exposes classification, validation and the lexical probe as MCP tools.
type Server struct {
	curation curation.Service
	server   *mcp.Server
	logger   *logger_i.Logger
}

func NewServer(c curation.Service) (*Server, error) {
	if c == nil {
		return nil, ErrMissingCurationService
	}
	impl := &mcp.Implementation{
		Name:    config.AppName,
		Version: config.AppVersion,
	}
	s := &Server{
		curation: c,
		server:   mcp.NewServer(impl, nil),
		logger:   logger_i.NewLogger("mcp_server"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
