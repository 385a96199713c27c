// Package talentctl implements the offline talent calculator CLI.
package talentctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"

	entrypoint "github.com/louisbranch/talentcalc/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/talentcalc/internal/platform/grpc"
	"github.com/louisbranch/talentcalc/internal/platform/i18n"
	"github.com/louisbranch/talentcalc/internal/platform/timeouts"
	talentsvc "github.com/louisbranch/talentcalc/internal/services/talents"
	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/codec"
	"github.com/louisbranch/talentcalc/internal/talent/session"
)

// Commands understood by Run.
const (
	CommandValidate = "validate"
	CommandDecode   = "decode"
	CommandEncode   = "encode"
	CommandHealth   = "health"
)

// Config holds talentctl configuration.
type Config struct {
	Command string
	Args    []string

	DataDir    string        `env:"DATA_DIR"`
	GRPCAddr   string        `env:"GRPC_ADDR" envDefault:"localhost:8091"`
	Timeout    time.Duration `env:"CTL_TIMEOUT" envDefault:"30s"`
	Lang       string        `env:"LANG_TAG"`
	JSONOutput bool
}

// ParseConfig parses environment, flags and the subcommand into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory containing data/<class>.yaml (default: embedded)")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "talents gRPC health address (health)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language for summaries (en-US or pt-BR)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: talentctl [flags] validate|decode <path>|encode <path>|health\n")
		fs.PrintDefaults()
	}
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, errors.New("command is required: validate, decode, encode or health")
	}
	if strings.TrimSpace(cfg.Lang) != "" {
		if _, ok := i18n.ParseTag(cfg.Lang); !ok {
			return Config{}, fmt.Errorf("unsupported language %q (supported: %s)", cfg.Lang, supportedLangs())
		}
	}
	cfg.Command, cfg.Args = rest[0], rest[1:]
	switch cfg.Command {
	case CommandValidate, CommandHealth:
	case CommandDecode, CommandEncode:
		if len(cfg.Args) != 1 {
			return Config{}, fmt.Errorf("%s takes exactly one share path", cfg.Command)
		}
	default:
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return cfg, nil
}

// Run executes the configured command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	loader := catalog.NewLoader(dataFS(cfg.DataDir))

	switch cfg.Command {
	case CommandValidate:
		return runValidate(ctx, loader, cfg, out, errOut)
	case CommandDecode:
		return runDecode(ctx, loader, cfg, out)
	case CommandEncode:
		sess := session.New(loader)
		if _, err := sess.FromPath(ctx, cfg.Args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, sess.Path())
		return nil
	case CommandHealth:
		return runHealth(ctx, cfg, out)
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

type classReport struct {
	Class   string `json:"class"`
	Trees   int    `json:"trees"`
	Talents int    `json:"talents"`
	Error   string `json:"error,omitempty"`
}

func runValidate(ctx context.Context, loader session.Loader, cfg Config, out io.Writer, errOut io.Writer) error {
	reports := make([]classReport, 0, len(catalog.Classes()))
	failed := 0
	for _, class := range catalog.Classes() {
		report := classReport{Class: class}
		sess := session.New(loader)
		if err := sess.Select(ctx, class); err != nil {
			report.Error = err.Error()
			failed++
		}
		trees := sess.State().Trees
		report.Trees = len(trees)
		for _, t := range trees {
			report.Talents += len(t.Talents)
		}
		reports = append(reports, report)
	}

	if cfg.JSONOutput {
		if err := json.NewEncoder(out).Encode(reports); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		for _, r := range reports {
			if r.Error != "" {
				fmt.Fprintf(errOut, "%s: Error: %s\n", r.Class, r.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %d trees, %d talents\n", r.Class, r.Trees, r.Talents)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d classes failed validation", failed, len(reports))
	}
	return nil
}

func runDecode(ctx context.Context, loader session.Loader, cfg Config, out io.Writer) error {
	sess := session.New(loader)
	state, err := sess.FromPath(ctx, cfg.Args[0])
	if err != nil {
		return err
	}
	tag := resolveLang(cfg.Lang)
	if cfg.JSONOutput {
		if err := json.NewEncoder(out).Encode(struct {
			session.State
			Valid bool          `json:"valid"`
			Dense string        `json:"dense"`
			Lines session.Lines `json:"lines"`
		}{state, sess.Valid(), denseBuild(state), state.Lines(tag)}); err != nil {
			return fmt.Errorf("encode build: %w", err)
		}
		return nil
	}

	lines := state.Lines(tag)
	fmt.Fprintf(out, "%s %s\n", catalog.DisplayName(state.Class, tag), state.Path)
	if dense := denseBuild(state); dense != "" {
		fmt.Fprintf(out, "legacy: /%s/%s\n", state.Class, dense)
	}
	fmt.Fprintln(out, lines.Spent)
	fmt.Fprintln(out, lines.Level)
	fmt.Fprintln(out, lines.Primary)
	for _, line := range lines.Trees {
		fmt.Fprintf(out, "  %s\n", line)
	}
	for i, item := range state.Order {
		fmt.Fprintf(out, "%3d. %s %d\n", i+1, item.Name, item.Rank)
	}
	if state.Dropped > 0 {
		fmt.Fprintf(out, "dropped: %d\n", state.Dropped)
	}
	if !sess.Valid() {
		fmt.Fprintln(out, "warning: build breaks tier or prerequisite rules")
	}
	return nil
}

func runHealth(ctx context.Context, cfg Config, out io.Writer) error {
	wait := timeouts.HealthWait
	if cfg.Timeout > 0 && cfg.Timeout < wait {
		wait = cfg.Timeout
	}
	conn, err := platformgrpc.DialWithHealth(ctx, cfg.GRPCAddr, talentsvc.HealthService, wait, nil)
	if err != nil {
		return fmt.Errorf("health %s: %w", cfg.GRPCAddr, err)
	}
	defer conn.Close()
	fmt.Fprintf(out, "%s SERVING\n", cfg.GRPCAddr)
	return nil
}

// denseBuild renders the legacy per-node digit form of the build.
func denseBuild(state session.State) string {
	points := make([][]int, len(state.Trees))
	for i, t := range state.Trees {
		points[i] = make([]int, len(t.Talents))
		for j, talent := range t.Talents {
			points[i][j] = talent.Points
		}
	}
	return codec.EncodeDense(points)
}

func supportedLangs() string {
	tags := i18n.SupportedTags()
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.String()
	}
	return strings.Join(names, ", ")
}

func resolveLang(value string) language.Tag {
	if strings.TrimSpace(value) == "" {
		return i18n.DefaultTag()
	}
	tag, _ := i18n.ParseTag(value)
	return tag
}

func dataFS(dir string) fs.FS {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	return os.DirFS(dir)
}
