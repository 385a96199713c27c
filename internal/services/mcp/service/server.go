package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/talentcalc/internal/platform/cmd"
	"github.com/louisbranch/talentcalc/internal/services/mcp/domain"
	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/session"
)

// serverName identifies the MCP implementation to clients.
const serverName = "talentcalc"

// Transport kinds.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines startup inputs for the MCP service.
type Config struct {
	Transport string
	HTTPAddr  string
	// AllowedHosts extends the loopback hosts accepted by the HTTP transport.
	AllowedHosts []string
	// Loader defaults to the embedded class catalog.
	Loader session.Loader
}

// NewServer builds an MCP server with every talent tool registered.
func NewServer(loader session.Loader) *mcp.Server {
	if loader == nil {
		loader = catalog.NewLoader(nil)
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: cmd.Version}, nil)
	deps := domain.Dependencies{Loader: loader}
	mcp.AddTool(server, domain.ClassesTool(), domain.ClassesHandler())
	mcp.AddTool(server, domain.BuildShowTool(), domain.BuildShowHandler(deps))
	mcp.AddTool(server, domain.BuildApplyTool(), domain.BuildApplyHandler(deps))
	mcp.AddTool(server, domain.BuildValidateTool(), domain.BuildValidateHandler(deps))
	return server
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, NewServer(cfg.Loader), &mcp.StdioTransport{})
	case TransportHTTP:
		transport, err := NewHTTPTransport(cfg.HTTPAddr, NewServer(cfg.Loader), cfg.AllowedHosts)
		if err != nil {
			return err
		}
		return transport.ListenAndServe(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport serves one MCP session until ctx ends or the client
// disconnects.
func runWithTransport(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	log.Printf("MCP server running")
	if err := server.Run(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}
