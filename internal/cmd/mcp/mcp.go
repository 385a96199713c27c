// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/louisbranch/talentcalc/internal/platform/cmd"
	mcpservice "github.com/louisbranch/talentcalc/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr     string   `env:"MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport    string   `env:"MCP_TRANSPORT" envDefault:"stdio"`
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	allowedHosts := strings.Join(cfg.AllowedHosts, ",")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&allowedHosts, "allowed-hosts", allowedHosts, "comma-separated hosts accepted besides loopback (HTTP transport)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.AllowedHosts = splitCSV(allowedHosts)
	switch cfg.Transport {
	case mcpservice.TransportStdio, mcpservice.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			Transport:    cfg.Transport,
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
		})
	})
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
