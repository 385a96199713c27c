package talents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/talentcalc/internal/platform/grpc"
)

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	if _, err := NewServer(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty http address")
	}
}

func TestNewServerRejectsBadGRPCAddr(t *testing.T) {
	if _, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0", GRPCAddr: "bad::addr::"}); err == nil {
		t.Fatal("expected error for invalid grpc address")
	}
}

func TestListenAndServeNilServer(t *testing.T) {
	var s *Server
	if err := s.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	s.Close()
}

func TestServerServesHTTPAndHealthUntilCanceled(t *testing.T) {
	httpAddr := freeAddr(t)
	server, err := NewServer(context.Background(), Config{
		HTTPAddr: httpAddr,
		GRPCAddr: "127.0.0.1:0",
		Handler:  HandlerConfig{Loader: fixedLoader{}, Logger: log.New(io.Discard, "", 0)},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()

	conn, err := platformgrpc.DialWithHealth(ctx, server.GRPCAddr(), HealthService, 5*time.Second, nil, platformgrpc.DefaultClientOptions()...)
	if err != nil {
		cancel()
		t.Fatalf("dial health: %v", err)
	}
	_ = conn.Close()

	if err := waitForHTTP(fmt.Sprintf("http://%s/healthz", httpAddr)); err != nil {
		cancel()
		t.Fatalf("http healthz: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("listen and serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}

func waitForHTTP(url string) error {
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return errors.New("timed out waiting for http")
}
