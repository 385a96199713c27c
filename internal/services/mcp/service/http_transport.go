package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/talentcalc/internal/platform/httpx"
	"github.com/louisbranch/talentcalc/internal/platform/timeouts"
)

// defaultHTTPAddr binds loopback only.
const defaultHTTPAddr = "localhost:8081"

// HTTPTransport serves MCP over the streamable HTTP transport.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	httpServer   *http.Server
}

// NewHTTPTransport builds the HTTP surface for server.
func NewHTTPTransport(addr string, server *mcp.Server, allowedHosts []string) (*HTTPTransport, error) {
	if server == nil {
		return nil, errors.New("mcp server is required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	t := &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(allowedHosts),
	}
	t.httpServer = &http.Server{
		Addr:              addr,
		Handler:           t.handler(server),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return t, nil
}

func (t *HTTPTransport) handler(server *mcp.Server) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", t.guard(streamable))
	mux.Handle("GET /mcp/health", t.guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))
	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace("talentcalc/mcp"),
		httpx.RequestLogger(log.Default()),
	)
}

// ListenAndServe serves until context cancellation or server stop.
func (t *HTTPTransport) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP HTTP server on %s", t.addr)
		serveErr <- t.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mcp http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve mcp http: %w", err)
	}
}

// guard rejects requests whose Host or Origin is not an allowed host, which
// keeps remote pages from reaching a local server through DNS rebinding.
func (t *HTTPTransport) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.validateLocalRequest(r); err != nil {
			_ = httpx.WriteJSONError(w, http.StatusForbidden, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if !t.isAllowedHostHeader(r.Host) {
		return fmt.Errorf("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolvedHost, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolvedHost) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolvedHost)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost extracts the hostname portion from Host/Origin headers.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}

	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}

	if strings.Count(host, ":") > 1 {
		return host, true
	}

	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}

	return host, true
}
