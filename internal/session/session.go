// Package session owns a live grid and decides when it may advance.
package session

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"cube-ca/internal/core"
	"cube-ca/internal/engine"
	"cube-ca/internal/rule"
)

// Session is the Idle/Editing/Running/Stopped state machine around one grid.
// All methods are safe for concurrent use. At most one tick runs at a time and
// readers only ever see complete generations.
type Session struct {
	logger   *log.Logger
	interval time.Duration

	// tickMu serializes ticks and anything that rebuilds the grid. It is
	// always taken before mu.
	tickMu sync.Mutex

	mu     sync.RWMutex
	state  State
	resume State
	n      int
	spec   rule.Spec
	seeds  []core.Seed
	grid   *core.Grid
	gen    int
	cancel context.CancelFunc

	drivers sync.WaitGroup
}

// New validates cfg and seeds the initial grid. Seeds outside the grid are
// dropped. The rule must parse but need not be usable yet.
func New(cfg Config, logger *log.Logger) (*Session, error) {
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("session: %w: %d", ErrGridSize, cfg.GridSize)
	}
	spec, err := rule.Parse(cfg.Rule)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seeds := core.DedupeSeeds(core.FitSeeds(cfg.Seeds, cfg.GridSize))
	if dropped := len(cfg.Seeds) - len(core.FitSeeds(cfg.Seeds, cfg.GridSize)); dropped > 0 {
		logger.Warn("dropped seeds outside grid", "count", dropped, "grid", cfg.GridSize)
	}
	s := &Session{
		logger:   logger,
		interval: cfg.Interval,
		state:    Idle,
		n:        cfg.GridSize,
		spec:     spec,
		seeds:    seeds,
	}
	s.reseedLocked()
	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Start moves an Idle or Stopped session to Running. It is a no-op when
// already running, fails with ErrEditing in editing mode and with an error
// wrapping ErrRuleInvalid when the current rule is unusable.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Running:
		return nil
	case Editing:
		return ErrEditing
	}
	if err := s.spec.Validate(); err != nil {
		s.logger.Warn("start rejected", "rule", s.spec.String(), "err", err)
		return fmt.Errorf("%w: %w", ErrRuleInvalid, err)
	}
	s.state = Running
	if s.interval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.drivers.Add(1)
		go s.drive(ctx, s.interval)
	}
	s.logger.Info("session started", "rule", s.spec.String(), "grid", s.n, "generation", s.gen)
	return nil
}

// Stop moves a Running session to Stopped and cancels future ticks. A tick
// already in flight may still publish its generation.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}
	s.state = Stopped
	s.stopDriverLocked()
	s.logger.Info("session stopped", "generation", s.gen)
}

// Close stops the session and waits for its driver to exit.
func (s *Session) Close() {
	s.Stop()
	s.drivers.Wait()
}

func (s *Session) stopDriverLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// EnterEditing stops the session and reseeds the grid from the seed list,
// discarding evolved generations.
func (s *Session) EnterEditing() {
	s.mu.Lock()
	if s.state == Editing {
		s.mu.Unlock()
		return
	}
	s.resume = s.state
	if s.resume == Running {
		s.resume = Stopped
	}
	s.state = Editing
	s.stopDriverLocked()
	s.mu.Unlock()

	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reseedLocked()
	s.logger.Info("editing", "seeds", len(s.seeds))
}

// ExitEditing leaves editing mode, returning to Idle if editing began there
// and to Stopped otherwise. The grid is reseeded so seeds pick up the
// maxState of a rule changed while editing.
func (s *Session) ExitEditing() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return
	}
	s.state = s.resume
	s.reseedLocked()
}

// Reseed replaces the seed list and rebuilds the grid at generation zero. It
// waits for an in-flight tick and leaves the session state unchanged. Seeds
// outside the grid are ignored.
func (s *Session) Reseed(seeds []core.Seed) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds = core.DedupeSeeds(core.FitSeeds(seeds, s.n))
	s.reseedLocked()
}

// Reset rebuilds the grid from the current seed list.
func (s *Session) Reset() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reseedLocked()
}

func (s *Session) reseedLocked() {
	s.grid = core.FromSeeds(s.n, s.seeds, seedState(s.spec))
	s.gen = 0
}

func seedState(spec rule.Spec) uint8 {
	switch m := spec.MaxState(); {
	case m < 0:
		return 0
	case m > rule.MaxStateLimit:
		return rule.MaxStateLimit
	default:
		return uint8(m)
	}
}

// SetRule replaces the rule. While running, an unusable rule is rejected and
// a usable one takes effect from the next tick.
func (s *Session) SetRule(spec rule.Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrRuleInvalid, err)
		}
	}
	s.spec = spec
	s.logger.Info("rule changed", "rule", spec.String(), "usable", rule.Usable(spec))
	return nil
}

// SetRuleString parses text and applies it with SetRule. On error the current
// rule is left unchanged.
func (s *Session) SetRuleString(text string) error {
	spec, err := rule.Parse(text)
	if err != nil {
		return err
	}
	return s.SetRule(spec)
}

// Rule returns the current rule.
func (s *Session) Rule() rule.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// CurrentRuleString returns the current rule in text form for display.
func (s *Session) CurrentRuleString() string { return s.Rule().String() }

// Seeds returns a copy of the seed list.
func (s *Session) Seeds() []core.Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.seeds)
}

// GridSize returns the grid edge length.
func (s *Session) GridSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

// Generation returns the number of ticks since the last reseed.
func (s *Session) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// AddSeed appends a seed and reseeds. Duplicates are ignored.
func (s *Session) AddSeed(seed core.Seed) error {
	return s.editSeeds(func(n int, seeds []core.Seed) ([]core.Seed, error) {
		if !seed.In(n) {
			return nil, fmt.Errorf("%w: %v", ErrSeedOutOfRange, seed)
		}
		if slices.Contains(seeds, seed) {
			return seeds, nil
		}
		return append(seeds, seed), nil
	})
}

// RemoveSeed deletes a seed and reseeds. Unknown seeds are ignored.
func (s *Session) RemoveSeed(seed core.Seed) error {
	return s.editSeeds(func(_ int, seeds []core.Seed) ([]core.Seed, error) {
		return slices.DeleteFunc(seeds, func(o core.Seed) bool { return o == seed }), nil
	})
}

// ClearSeeds empties the seed list and reseeds.
func (s *Session) ClearSeeds() error {
	return s.editSeeds(func(int, []core.Seed) ([]core.Seed, error) { return nil, nil })
}

func (s *Session) editSeeds(edit func(n int, seeds []core.Seed) ([]core.Seed, error)) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return ErrNotEditing
	}
	seeds, err := edit(s.n, slices.Clone(s.seeds))
	if err != nil {
		return err
	}
	s.seeds = seeds
	s.reseedLocked()
	return nil
}

// SetGridSize changes the grid edge length, dropping seeds that no longer
// fit and reseeding. It is refused while running.
func (s *Session) SetGridSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrGridSize, n)
	}
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		return ErrRunning
	}
	s.n = n
	s.seeds = core.FitSeeds(s.seeds, n)
	s.reseedLocked()
	s.logger.Info("grid resized", "grid", n, "seeds", len(s.seeds))
	return nil
}

// LoadPreset stops the session, then applies the preset's rule, seeds and
// grid size. On a parse error nothing changes.
func (s *Session) LoadPreset(p core.Preset) error {
	spec, err := rule.Parse(p.Rule)
	if err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	s.Stop()

	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.GridSize > 0 {
		s.n = p.GridSize
	}
	s.spec = spec
	s.seeds = core.DedupeSeeds(core.FitSeeds(p.Seeds, s.n))
	s.reseedLocked()
	s.logger.Info("preset loaded", "preset", p.Name, "rule", spec.String(), "grid", s.n)
	return nil
}

// Tick advances one generation if the session is running. It reports whether
// a new generation was published. The step reads the grid and rule captured
// at the start of the tick.
func (s *Session) Tick() (bool, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.RLock()
	if s.state != Running {
		s.mu.RUnlock()
		return false, nil
	}
	grid, spec := s.grid, s.spec
	s.mu.RUnlock()

	next, err := engine.Step(grid, spec)
	if err != nil {
		return false, fmt.Errorf("session: tick: %w", err)
	}

	s.mu.Lock()
	s.grid = next
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if s.logger.GetLevel() <= log.DebugLevel {
		s.logger.Debug("tick", "generation", gen, "population", next.Population())
	}
	return true, nil
}

// Snapshot returns a read-only view of the most recently completed generation.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{grid: s.grid, gen: s.gen, maxState: s.spec.MaxState()}
}
