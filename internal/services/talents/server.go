// Package talents hosts the talent calculator HTTP API and its gRPC health
// endpoint.
package talents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"

	platformgrpc "github.com/louisbranch/talentcalc/internal/platform/grpc"
	"github.com/louisbranch/talentcalc/internal/platform/timeouts"
)

// HealthService is the gRPC health service name reported by the server.
const HealthService = "talentcalc.talents"

// Config defines startup inputs for the talents service.
type Config struct {
	HTTPAddr string
	// GRPCAddr is optional; the health endpoint is skipped when empty.
	GRPCAddr string
	Handler  HandlerConfig
}

// Server hosts the HTTP surface and the gRPC health endpoint.
type Server struct {
	httpAddr     string
	httpServer   *http.Server
	grpcAddr     string
	grpcListener net.Listener
	grpcServer   *gogrpc.Server
	health       *health.Server
}

// NewServer validates config and constructs a server. The gRPC listener is
// bound eagerly so address errors surface before serving.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	s := &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           NewHandler(cfg.Handler),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}

	if grpcAddr := strings.TrimSpace(cfg.GRPCAddr); grpcAddr != "" {
		listener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return nil, fmt.Errorf("listen grpc on %s: %w", grpcAddr, err)
		}
		s.grpcListener = listener
		s.grpcAddr = listener.Addr().String()
		s.grpcServer, s.health = platformgrpc.NewHealthServer(HealthService)
	}
	return s, nil
}

// GRPCAddr returns the bound gRPC address, or empty when disabled.
func (s *Server) GRPCAddr() string {
	if s == nil {
		return ""
	}
	return s.grpcAddr
}

// ListenAndServe serves HTTP and gRPC traffic until context cancellation or
// either server stops.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("talents server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.serveHTTP(ctx)
	})
	if s.grpcServer != nil {
		group.Go(func() error {
			return s.serveGRPC(ctx)
		})
	}
	return group.Wait()
}

func (s *Server) serveHTTP(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("talents HTTP listening on %s", s.httpAddr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown talents http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve talents http: %w", err)
	}
}

func (s *Server) serveGRPC(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("talents gRPC health listening on %s", s.grpcAddr)
		serveErr <- s.grpcServer.Serve(s.grpcListener)
	}()
	platformgrpc.SetServing(s.health, HealthService)

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(timeouts.Shutdown):
			s.grpcServer.Stop()
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve talents grpc: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
}
