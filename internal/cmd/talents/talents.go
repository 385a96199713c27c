// Package talents parses talents command flags and starts the HTTP service.
package talents

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/louisbranch/talentcalc/internal/platform/cmd"
	talentsvc "github.com/louisbranch/talentcalc/internal/services/talents"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage"
	"github.com/louisbranch/talentcalc/internal/services/talents/storage/sqlite"
	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/engine"
)

// Config holds talents command configuration.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"localhost:8090"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:"localhost:8091"`
	// DBPath is the saved-build database; empty disables saved builds.
	DBPath string `env:"DB_PATH" envDefault:"data/talents.db"`
	// DataDir holds data/<class>.yaml overrides; empty uses the embedded data.
	DataDir string `env:"DATA_DIR"`
	Budget  int    `env:"BUDGET" envDefault:"61"`
	// FirstLevel is the first character level that grants a talent point.
	FirstLevel int `env:"FIRST_LEVEL" envDefault:"10"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "saved-build sqlite path (empty disables saved builds)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory containing data/<class>.yaml (default: embedded)")
	fs.IntVar(&cfg.Budget, "budget", cfg.Budget, "talent point budget")
	fs.IntVar(&cfg.FirstLevel, "first-level", cfg.FirstLevel, "first level granting a talent point")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Budget < 0 {
		return Config{}, fmt.Errorf("budget must not be negative: %d", cfg.Budget)
	}
	if cfg.FirstLevel < 1 || cfg.FirstLevel > engine.DefaultSchedule.MaxLevel {
		return Config{}, fmt.Errorf("first level must be within 1..%d: %d", engine.DefaultSchedule.MaxLevel, cfg.FirstLevel)
	}
	return cfg, nil
}

// Run starts the talents HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTalents, func(ctx context.Context) error {
		store, err := openStore(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		if store != nil {
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("close saved-build store: %v", err)
				}
			}()
		}

		handlerCfg := talentsvc.HandlerConfig{
			Loader:        catalog.NewLoader(dataFS(cfg.DataDir)),
			EngineOptions: engineOptions(cfg),
		}
		if store != nil {
			handlerCfg.Store = store
		}
		server, err := talentsvc.NewServer(ctx, talentsvc.Config{
			HTTPAddr: cfg.HTTPAddr,
			GRPCAddr: cfg.GRPCAddr,
			Handler:  handlerCfg,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}

// engineOptions applies the configured budget and level schedule. A zero
// FirstLevel keeps the default schedule.
func engineOptions(cfg Config) []engine.Option {
	schedule := engine.DefaultSchedule
	if cfg.FirstLevel > 0 {
		schedule.FirstLevel = cfg.FirstLevel
	}
	return []engine.Option{engine.WithBudget(cfg.Budget), engine.WithSchedule(schedule)}
}

func openStore(ctx context.Context, path string) (storage.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open saved-build store: %w", err)
	}
	return store, nil
}

func dataFS(dir string) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	return os.DirFS(dir)
}
