package mcp

import (
	"flag"
	"slices"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if len(cfg.AllowedHosts) != 0 {
		t.Fatalf("expected no allowed hosts, got %v", cfg.AllowedHosts)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("TALENTCALC_MCP_HTTP_ADDR", "env-http")
	t.Setenv("TALENTCALC_MCP_ALLOWED_HOSTS", "a.example, b.example")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-transport", "http"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "env-http" {
		t.Fatalf("expected env http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if !slices.Equal(cfg.AllowedHosts, []string{"a.example", "b.example"}) {
		t.Fatalf("allowed hosts = %v", cfg.AllowedHosts)
	}

	fs = flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-http-addr", "flag-http", "-allowed-hosts", "c.example"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" || !slices.Equal(cfg.AllowedHosts, []string{"c.example"}) {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseConfigRejectsUnknownTransport(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-transport", "websocket"}); err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}
