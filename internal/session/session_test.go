package session

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"cube-ca/internal/core"
	"cube-ca/internal/rule"
)

func newManual(t *testing.T, n int, ruleText string, seeds ...core.Seed) *Session {
	t.Helper()
	s, err := New(Config{GridSize: n, Rule: ruleText, Seeds: seeds}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func mustTick(t *testing.T, s *Session) {
	t.Helper()
	ok, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !ok {
		t.Fatal("Tick did not advance a running session")
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.State() != Idle {
		t.Fatalf("state = %v, want idle", s.State())
	}
	if s.CurrentRuleString() != "0-6/1,3/2/N" {
		t.Fatalf("rule = %q", s.CurrentRuleString())
	}
	snap := s.Snapshot()
	if snap.Size() != 50 || snap.Population() != 1 {
		t.Fatalf("size=%d population=%d", snap.Size(), snap.Population())
	}
	if v, _ := snap.At(25, 25, 25); v != 1 {
		t.Fatalf("seed state = %d, want 1", v)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{GridSize: 0, Rule: "1/1/2/M"}, nil); !errors.Is(err, ErrGridSize) {
		t.Fatalf("err = %v, want ErrGridSize", err)
	}
	_, err := New(Config{GridSize: 3, Rule: "4/4/5"}, nil)
	if !errors.Is(err, rule.ErrSyntax) {
		t.Fatalf("err = %v, want rule.ErrSyntax", err)
	}
}

func TestNewDropsOutOfRangeSeeds(t *testing.T) {
	s := newManual(t, 3, "1/1/3/M", core.Seed{X: 1, Y: 1, Z: 1}, core.Seed{X: 3, Y: 0, Z: 0}, core.Seed{X: 1, Y: 1, Z: 1})
	if got := s.Seeds(); !slices.Equal(got, []core.Seed{{X: 1, Y: 1, Z: 1}}) {
		t.Fatalf("seeds = %v", got)
	}
	if v, _ := s.Snapshot().At(1, 1, 1); v != 2 {
		t.Fatalf("seed state = %d, want max state 2", v)
	}
}

func TestStartRequiresUsableRule(t *testing.T) {
	s := newManual(t, 3, "1/1/0/M", core.Seed{X: 1, Y: 1, Z: 1})
	err := s.Start()
	if !errors.Is(err, ErrRuleInvalid) || !errors.Is(err, rule.ErrMaxState) {
		t.Fatalf("Start error = %v", err)
	}
	if s.State() != Idle {
		t.Fatalf("state = %v after rejected start", s.State())
	}

	if err := s.SetRuleString("1/1/2/M"); err != nil {
		t.Fatalf("SetRuleString: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != Running {
		t.Fatalf("state = %v, want running", s.State())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start should be a no-op, got %v", err)
	}
}

func TestTickOnlyWhileRunning(t *testing.T) {
	s := newManual(t, 3, "0-6/1,3/2/M", core.Seed{X: 1, Y: 1, Z: 1})
	ok, err := s.Tick()
	if ok || err != nil {
		t.Fatalf("Tick while idle = (%v, %v)", ok, err)
	}
	if s.Generation() != 0 {
		t.Fatal("idle tick advanced the generation")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mustTick(t, s)
	if got := s.Snapshot().Population(); got != 27 {
		t.Fatalf("population after one tick = %d, want 27", got)
	}

	s.Stop()
	if s.State() != Stopped {
		t.Fatalf("state = %v, want stopped", s.State())
	}
	if ok, _ := s.Tick(); ok {
		t.Fatal("stopped session ticked")
	}
	if s.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", s.Generation())
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := newManual(t, 3, "0-6/1,3/2/M", core.Seed{X: 1, Y: 1, Z: 1})
	before := s.Snapshot()
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mustTick(t, s)

	if before.Population() != 1 || before.Generation() != 0 {
		t.Fatalf("old snapshot changed: population=%d generation=%d", before.Population(), before.Generation())
	}
	after := s.Snapshot()
	if after.Generation() != 1 || after.Population() != 27 {
		t.Fatalf("new snapshot: population=%d generation=%d", after.Population(), after.Generation())
	}

	copyGrid := after.Grid()
	copyGrid.Cells()[0] = 0
	if v, _ := after.At(0, 0, 0); v != 1 {
		t.Fatal("Grid() must return a private copy")
	}
}

func TestEditingStopsAndReseeds(t *testing.T) {
	s := newManual(t, 3, "0-6/1,3/2/M", core.Seed{X: 1, Y: 1, Z: 1})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mustTick(t, s)
	mustTick(t, s)

	s.EnterEditing()
	if s.State() != Editing {
		t.Fatalf("state = %v, want editing", s.State())
	}
	snap := s.Snapshot()
	if snap.Generation() != 0 || snap.Population() != 1 {
		t.Fatalf("editing did not reseed: generation=%d population=%d", snap.Generation(), snap.Population())
	}
	if err := s.Start(); !errors.Is(err, ErrEditing) {
		t.Fatalf("Start while editing = %v, want ErrEditing", err)
	}
	if ok, _ := s.Tick(); ok {
		t.Fatal("editing session ticked")
	}

	s.ExitEditing()
	if s.State() != Stopped {
		t.Fatalf("state after editing = %v, want stopped", s.State())
	}
}

func TestExitEditingReturnsToIdle(t *testing.T) {
	s := newManual(t, 3, "1/1/2/M")
	s.EnterEditing()
	s.EnterEditing()
	s.ExitEditing()
	if s.State() != Idle {
		t.Fatalf("state = %v, want idle", s.State())
	}
	s.ExitEditing()
	if s.State() != Idle {
		t.Fatalf("ExitEditing outside editing changed state to %v", s.State())
	}
}

func TestExitEditingReseedsWithEditedRule(t *testing.T) {
	s := newManual(t, 5, "0-6/1,3/2/N", core.Seed{X: 2, Y: 2, Z: 2})
	s.EnterEditing()
	if err := s.SetRuleString("1-2/1,3/5/N"); err != nil {
		t.Fatalf("SetRuleString: %v", err)
	}
	s.ExitEditing()

	snap := s.Snapshot()
	if v, _ := snap.At(2, 2, 2); v != 4 {
		t.Fatalf("seed state after editing = %d, want 4", v)
	}
	if snap.Generation() != 0 || snap.Population() != 1 {
		t.Fatalf("generation=%d population=%d", snap.Generation(), snap.Population())
	}

	preset, err := New(Config{GridSize: 5, Rule: "1-2/1,3/5/N", Seeds: []core.Seed{{X: 2, Y: 2, Z: 2}}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer preset.Close()
	for _, sess := range []*Session{s, preset} {
		if err := sess.Start(); err != nil {
			t.Fatalf("Start: %v", err)
		}
		mustTick(t, sess)
	}
	if !slices.Equal(s.Snapshot().Grid().Cells(), preset.Snapshot().Grid().Cells()) {
		t.Fatal("edited rule diverges from the same rule loaded directly")
	}
}

func TestSeedEditing(t *testing.T) {
	s := newManual(t, 4, "4/4/5/M")
	if err := s.AddSeed(core.Seed{X: 1, Y: 1, Z: 1}); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("AddSeed outside editing = %v", err)
	}

	s.EnterEditing()
	for _, seed := range []core.Seed{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 2}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}} {
		if err := s.AddSeed(seed); err != nil {
			t.Fatalf("AddSeed(%v): %v", seed, err)
		}
	}
	if err := s.AddSeed(core.Seed{X: 4, Y: 0, Z: 0}); !errors.Is(err, ErrSeedOutOfRange) {
		t.Fatalf("AddSeed out of range = %v", err)
	}
	if got := s.Seeds(); !slices.Equal(got, []core.Seed{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 2}, {X: 2, Y: 2, Z: 2}}) {
		t.Fatalf("seeds = %v", got)
	}
	if got := s.Snapshot().Population(); got != 3 {
		t.Fatalf("grid does not mirror seeds: population %d", got)
	}
	if v, _ := s.Snapshot().At(2, 2, 2); v != 4 {
		t.Fatalf("seed state = %d, want 4", v)
	}

	if err := s.RemoveSeed(core.Seed{X: 1, Y: 1, Z: 2}); err != nil {
		t.Fatalf("RemoveSeed: %v", err)
	}
	if got := s.Seeds(); !slices.Equal(got, []core.Seed{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}) {
		t.Fatalf("seeds after remove = %v", got)
	}
	if err := s.ClearSeeds(); err != nil {
		t.Fatalf("ClearSeeds: %v", err)
	}
	if len(s.Seeds()) != 0 || s.Snapshot().Population() != 0 {
		t.Fatal("ClearSeeds left live cells")
	}
}

func TestSetRuleWhileRunning(t *testing.T) {
	s := newManual(t, 3, "0-26/27/2/M", core.Seed{X: 1, Y: 1, Z: 1})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bad := rule.New(rule.Counts(1), rule.CountSet{}, 1, rule.Moore)
	if err := s.SetRule(bad); !errors.Is(err, ErrRuleInvalid) {
		t.Fatalf("SetRule(unusable) while running = %v", err)
	}
	if s.CurrentRuleString() != "0-26/27/2/M" {
		t.Fatalf("rule changed to %q", s.CurrentRuleString())
	}
	if err := s.SetRuleString("4/4/5"); !errors.Is(err, rule.ErrSyntax) {
		t.Fatalf("SetRuleString(malformed) = %v", err)
	}
	if s.CurrentRuleString() != "0-26/27/2/M" {
		t.Fatalf("malformed rule replaced the current one: %q", s.CurrentRuleString())
	}

	mustTick(t, s)
	if s.Snapshot().Population() != 1 {
		t.Fatal("old rule should not grow anything")
	}
	if err := s.SetRuleString("0-26/1/3/M"); err != nil {
		t.Fatalf("SetRuleString: %v", err)
	}
	mustTick(t, s)
	snap := s.Snapshot()
	if snap.Population() != 27 {
		t.Fatalf("new rule not applied on next tick: population %d", snap.Population())
	}
	if v, _ := snap.At(0, 0, 0); v != 2 {
		t.Fatalf("newborn state = %d, want 2", v)
	}
}

func TestSetRuleWhileStoppedAcceptsUnusable(t *testing.T) {
	s := newManual(t, 3, "1/1/2/M")
	if err := s.SetRuleString("1/1/0/M"); err != nil {
		t.Fatalf("SetRuleString: %v", err)
	}
	if rule.Usable(s.Rule()) {
		t.Fatal("expected stored rule to be unusable")
	}
	if err := s.Start(); !errors.Is(err, ErrRuleInvalid) {
		t.Fatalf("Start = %v, want ErrRuleInvalid", err)
	}
}

func TestReseedKeepsState(t *testing.T) {
	s := newManual(t, 4, "0-26/1/2/M", core.Seed{X: 0, Y: 0, Z: 0})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mustTick(t, s)

	s.Reseed([]core.Seed{{X: 3, Y: 3, Z: 3}, {X: 9, Y: 9, Z: 9}})
	if s.State() != Running {
		t.Fatalf("Reseed changed state to %v", s.State())
	}
	snap := s.Snapshot()
	if snap.Generation() != 0 || snap.Population() != 1 {
		t.Fatalf("after reseed: generation=%d population=%d", snap.Generation(), snap.Population())
	}
	if got := s.Seeds(); !slices.Equal(got, []core.Seed{{X: 3, Y: 3, Z: 3}}) {
		t.Fatalf("seeds = %v", got)
	}

	mustTick(t, s)
	s.Reset()
	if s.Snapshot().Population() != 1 || s.Generation() != 0 {
		t.Fatal("Reset did not rebuild from seeds")
	}
}

func TestSetGridSize(t *testing.T) {
	s := newManual(t, 5, "1/1/2/M", core.Seed{X: 1, Y: 1, Z: 1}, core.Seed{X: 4, Y: 4, Z: 4})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SetGridSize(3); !errors.Is(err, ErrRunning) {
		t.Fatalf("SetGridSize while running = %v", err)
	}
	s.Stop()
	if err := s.SetGridSize(0); !errors.Is(err, ErrGridSize) {
		t.Fatalf("SetGridSize(0) = %v", err)
	}
	if err := s.SetGridSize(3); err != nil {
		t.Fatalf("SetGridSize: %v", err)
	}
	if s.GridSize() != 3 || s.Snapshot().Size() != 3 {
		t.Fatalf("grid size = %d", s.GridSize())
	}
	if got := s.Seeds(); !slices.Equal(got, []core.Seed{{X: 1, Y: 1, Z: 1}}) {
		t.Fatalf("seeds = %v", got)
	}
}

func TestLoadPreset(t *testing.T) {
	s := newManual(t, 10, "1/1/2/M")
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bad := core.Preset{Name: "bad", Rule: "nope"}
	if err := s.LoadPreset(bad); !errors.Is(err, rule.ErrSyntax) {
		t.Fatalf("LoadPreset(bad) = %v", err)
	}
	if s.State() != Running {
		t.Fatal("failed preset must leave the session untouched")
	}

	p := core.Preset{
		Name:     "slime",
		Rule:     "4/4/5/M",
		Seeds:    []core.Seed{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 2}, {X: 1, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2}, {X: 7, Y: 7, Z: 7}},
		GridSize: 6,
	}
	if err := s.LoadPreset(p); err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if s.State() != Stopped {
		t.Fatalf("state = %v, want stopped", s.State())
	}
	if s.GridSize() != 6 || s.CurrentRuleString() != "4/4/5/M" {
		t.Fatalf("grid=%d rule=%q", s.GridSize(), s.CurrentRuleString())
	}
	snap := s.Snapshot()
	if snap.Population() != 4 {
		t.Fatalf("population = %d, want 4", snap.Population())
	}
	if counts := snap.StateCounts(); !slices.Equal(counts, []int{212, 0, 0, 0, 4}) {
		t.Fatalf("state counts = %v", counts)
	}
}

func TestConcurrentTicksAreSerialized(t *testing.T) {
	s := newManual(t, 4, "0-26/1/3/M", core.Seed{X: 0, Y: 0, Z: 0})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	advanced := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				ok, err := s.Tick()
				if err != nil {
					t.Errorf("Tick: %v", err)
					return
				}
				if ok {
					mu.Lock()
					advanced++
					mu.Unlock()
				}
				_ = s.Snapshot().Population()
			}
		}()
	}
	wg.Wait()

	if advanced != 80 || s.Generation() != 80 {
		t.Fatalf("advanced=%d generation=%d, want 80", advanced, s.Generation())
	}
}

func TestDriverTicksUntilStopped(t *testing.T) {
	cfg := Config{
		GridSize: 4,
		Interval: 2 * time.Millisecond,
		Rule:     "0-26/1/3/M",
		Seeds:    []core.Seed{{X: 0, Y: 0, Z: 0}},
	}
	s, err := New(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for s.Generation() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("driver produced only %d generations", s.Generation())
		}
		time.Sleep(time.Millisecond)
	}

	s.Close()
	if s.State() != Stopped {
		t.Fatalf("state = %v, want stopped", s.State())
	}
	gen := s.Generation()
	time.Sleep(20 * time.Millisecond)
	if s.Generation() != gen {
		t.Fatalf("generation moved from %d to %d after Close", gen, s.Generation())
	}

	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	for s.Generation() <= gen {
		if time.Now().After(deadline) {
			t.Fatal("restarted driver never ticked")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestParameters(t *testing.T) {
	s := newManual(t, 3, "4/4/5/M", core.Seed{X: 1, Y: 1, Z: 1})
	snap := s.Parameters()
	want := map[string]string{
		"state":        "idle",
		"generation":   "0",
		"population":   "1",
		"rule":         "4/4/5/M",
		"survive":      "4",
		"states":       "5",
		"neighborhood": "M (26 cube)",
		"usable":       "true",
		"n":            "3",
		"seeds":        "1",
		"cells":        "27",
	}
	for key, value := range want {
		got, ok := snap.Lookup(key)
		if !ok || got != value {
			t.Fatalf("parameter %q = %q (present=%v), want %q", key, got, ok, value)
		}
	}
}

func TestFromMap(t *testing.T) {
	core.Register("zz-session-test", core.Preset{Rule: "4/4/5/M", Seeds: []core.Seed{{X: 1, Y: 1, Z: 1}}, GridSize: 8})

	c := FromMap(map[string]string{"preset": "zz-session-test", "interval_ms": "50"})
	if c.Rule != "4/4/5/M" || c.GridSize != 8 || c.Interval != 50*time.Millisecond {
		t.Fatalf("unexpected config %+v", c)
	}
	if !slices.Equal(c.Seeds, []core.Seed{{X: 1, Y: 1, Z: 1}}) {
		t.Fatalf("seeds = %v", c.Seeds)
	}

	c = FromMap(map[string]string{"preset": "zz-session-test", "n": "12", "rule": "1/1/2/N", "interval_ms": "-4"})
	if c.GridSize != 12 || c.Rule != "1/1/2/N" || c.Interval != DefaultConfig().Interval {
		t.Fatalf("overrides not applied: %+v", c)
	}

	c = FromMap(map[string]string{"n": "zero", "preset": "missing"})
	if c.GridSize != 50 || c.Rule != DefaultConfig().Rule {
		t.Fatalf("invalid values should keep defaults: %+v", c)
	}
	if got := FromMap(nil); got.GridSize != 50 {
		t.Fatalf("FromMap(nil) = %+v", got)
	}
}
