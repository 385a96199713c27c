// Package session owns one user's calculator state: the selected class, its
// engine, and the share path that reproduces it.
//
// Class data loads are the only blocking step. Each selection bumps a
// generation counter; a load that finishes after a newer selection is
// dropped without error so it can never overwrite the newer class.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/louisbranch/talentcalc/internal/talent/catalog"
	"github.com/louisbranch/talentcalc/internal/talent/codec"
	"github.com/louisbranch/talentcalc/internal/talent/engine"
	"github.com/louisbranch/talentcalc/internal/talent/tree"
)

// RejectNotLoaded refuses operations issued before class data is loaded.
const RejectNotLoaded = "NOT_LOADED"

var errStale = errors.New("selection superseded")

// Loader supplies the trees of a class.
type Loader interface {
	Load(ctx context.Context, className string) ([]tree.Tree, error)
}

// State is a snapshot of everything a client renders.
type State struct {
	Class   string             `json:"class"`
	Loaded  bool               `json:"loaded"`
	Trees   []engine.TreeState `json:"trees"`
	Summary engine.Summary     `json:"summary"`
	Order   []engine.OrderItem `json:"order"`
	Path    string             `json:"path"`
	// Dropped counts decoded events that could not be applied.
	Dropped int `json:"dropped,omitempty"`
}

// Session is single-owner; the mutex only keeps concurrent misuse from
// corrupting it.
type Session struct {
	loader Loader
	opts   []engine.Option

	mu         sync.Mutex
	generation uint64
	class      string
	engine     *engine.Engine
	dropped    int
}

// New returns a session with no class selected.
func New(loader Loader, opts ...engine.Option) *Session {
	return &Session{loader: loader, opts: opts}
}

// Select switches to className and loads its trees with an empty history.
// A load overtaken by a newer selection is discarded and Select returns nil.
func (s *Session) Select(ctx context.Context, className string) error {
	return ignoreStale(s.load(ctx, className, nil))
}

// Initialize selects className and seeds it from encoded share segments.
// An order slug wins over a dense build; undecodable parts are dropped.
func (s *Session) Initialize(ctx context.Context, className, encodedBuild, encodedOrder string) (State, error) {
	seed := func(e *engine.Engine) int {
		switch {
		case encodedOrder != "":
			return e.Seed(codec.DecodeOrder(encodedOrder, e.Trees()))
		case codec.IsDense(encodedBuild):
			trees := e.Trees()
			return e.Seed(codec.HistoryFromDense(codec.DecodeDense(encodedBuild, trees), trees, e.Budget()))
		default:
			return 0
		}
	}
	if err := ignoreStale(s.load(ctx, className, seed)); err != nil {
		return State{}, err
	}
	return s.State(), nil
}

// FromPath initializes from a share path. A path without a class selects
// catalog.DefaultClass.
func (s *Session) FromPath(ctx context.Context, path string) (State, error) {
	share := codec.ParsePath(path)
	if share.Class == "" {
		share.Class = catalog.DefaultClass
	}
	if share.Empty() {
		if err := s.Select(ctx, share.Class); err != nil {
			return State{}, err
		}
		return s.State(), nil
	}
	return s.Initialize(ctx, share.Class, share.Build, share.Order)
}

func (s *Session) load(ctx context.Context, className string, seed func(*engine.Engine) int) error {
	name := catalog.Normalize(className)
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.class = name
	s.engine = nil
	s.dropped = 0
	s.mu.Unlock()

	trees, err := s.loader.Load(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return errStale
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e := engine.New(trees, s.opts...)
	if seed != nil {
		s.dropped = seed(e)
	}
	s.engine = e
	return nil
}

// Class returns the selected class, loaded or not.
func (s *Session) Class() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.class
}

// Loaded reports whether the selected class finished loading.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil
}

// Increment forwards to the engine.
func (s *Session) Increment(treeIdx int, nodeID string) engine.Decision {
	return s.withEngine(func(e *engine.Engine) engine.Decision {
		return e.Increment(treeIdx, nodeID)
	})
}

// Decrement forwards to the engine.
func (s *Session) Decrement(treeIdx int, nodeID string) engine.Decision {
	return s.withEngine(func(e *engine.Engine) engine.Decision {
		return e.Decrement(treeIdx, nodeID)
	})
}

// ResetTree forwards to the engine.
func (s *Session) ResetTree(treeIdx int) engine.Decision {
	return s.withEngine(func(e *engine.Engine) engine.Decision {
		return e.ResetTree(treeIdx)
	})
}

// ResetAll reloads the class data into the live engine, clearing its
// history. A class whose previous load failed gets a fresh engine. A reset
// overtaken by a newer selection is discarded.
func (s *Session) ResetAll(ctx context.Context) (engine.Decision, error) {
	s.mu.Lock()
	className := s.class
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if className == "" {
		return notLoaded(), nil
	}
	trees, err := s.loader.Load(ctx, className)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return engine.Decision{}, nil
	}
	if err != nil {
		return engine.Decision{}, fmt.Errorf("load %s: %w", className, err)
	}
	s.dropped = 0
	if s.engine == nil {
		s.engine = engine.New(trees, s.opts...)
		return engine.Accept(), nil
	}
	removed := s.engine.History()
	s.engine.Reload(trees)
	return engine.Accept(removed...), nil
}

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{Class: s.class, Path: s.pathLocked(), Dropped: s.dropped}
	if s.engine == nil {
		return state
	}
	state.Loaded = true
	state.Trees = s.engine.Distribution()
	state.Summary = s.engine.Summary()
	state.Order = s.engine.TalentOrder()
	return state
}

// Path returns the canonical share path, /<class>/<order slug>.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathLocked()
}

// Valid reports whether the loaded build satisfies every gating rule.
// Seeded builds can violate them; builds made only through Increment cannot.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil && s.engine.Valid()
}

func (s *Session) pathLocked() string {
	share := codec.Share{Class: s.class}
	if s.engine != nil {
		share.Order = codec.EncodeOrder(s.engine.History(), s.engine.Trees())
	}
	return codec.FormatPath(share)
}

func (s *Session) withEngine(op func(*engine.Engine) engine.Decision) engine.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return notLoaded()
	}
	return op(s.engine)
}

func notLoaded() engine.Decision {
	return engine.Reject(engine.Rejection{Code: RejectNotLoaded, Message: "class data is not loaded"})
}

func ignoreStale(err error) error {
	if errors.Is(err, errStale) {
		return nil
	}
	return err
}
