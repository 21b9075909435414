package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"cube-ca/internal/core"
	"cube-ca/internal/presets"
	"cube-ca/internal/session"
)

type ruleList []string

func (l *ruleList) String() string {
	return strings.Join(*l, ",")
}

func (l *ruleList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type scenarioResult struct {
	rule       string
	final      int
	peak       int
	peakStep   int
	extinctAt  int
	steps      int
	stateHisto []int
}

func main() {
	steps := flag.Int("steps", 40, "generations to simulate per rule")
	n := flag.Int("n", 24, "grid edge length")
	workers := flag.Int("workers", runtime.NumCPU(), "number of rules simulated in parallel")
	random := flag.Int("random", 0, "scatter this many random seeds instead of a single center seed")
	seed := flag.Int64("seed", 1337, "RNG seed for -random")
	logLevel := flag.String("log-level", "warn", "log level for per-session logging")
	var rules ruleList
	flag.Var(&rules, "rule", "rule to evaluate (repeatable); defaults to the bundled presets")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal("bad log level", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "rule-sweep"})
	logger.SetLevel(level)

	if len(rules) == 0 {
		for _, name := range []string{presets.CrystalGrowth1, presets.CrystalGrowth2, presets.SlimeWall} {
			rules = append(rules, core.Presets()[name].Rule)
		}
	}

	seeds := []core.Seed{{X: *n / 2, Y: *n / 2, Z: *n / 2}}
	if *random > 0 {
		seeds = core.NewRNG(*seed).ScatterSeeds(*n, *random)
	}

	fmt.Printf("Sweeping %d rules (%d workers, %d steps, %d³ grid, %d seeds)\n", len(rules), *workers, *steps, *n, len(seeds))

	results := make([]scenarioResult, len(rules))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*workers, 1))
	for i, text := range rules {
		g.Go(func() error {
			res, err := runScenario(ctx, session.Config{GridSize: *n, Rule: text, Seeds: seeds}, *steps, logger)
			if err != nil {
				return fmt.Errorf("rule %q: %w", text, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("sweep failed", "err", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].peak > results[j].peak })
	fmt.Printf("\n%-20s %8s %8s %6s %8s  %s\n", "rule", "final", "peak", "at", "extinct", "states")
	for _, r := range results {
		extinct := "-"
		if r.extinctAt >= 0 {
			extinct = fmt.Sprint(r.extinctAt)
		}
		fmt.Printf("%-20s %8d %8d %6d %8s  %v\n", r.rule, r.final, r.peak, r.peakStep, extinct, r.stateHisto)
	}
}

func runScenario(ctx context.Context, cfg session.Config, steps int, logger *log.Logger) (scenarioResult, error) {
	sess, err := session.New(cfg, logger.With("rule", cfg.Rule))
	if err != nil {
		return scenarioResult{}, err
	}
	defer sess.Close()
	if err := sess.Start(); err != nil {
		return scenarioResult{}, err
	}

	res := scenarioResult{rule: cfg.Rule, extinctAt: -1}
	res.peak = sess.Snapshot().Population()
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return scenarioResult{}, err
		}
		if _, err := sess.Tick(); err != nil {
			return scenarioResult{}, err
		}
		pop := sess.Snapshot().Population()
		if pop > res.peak {
			res.peak = pop
			res.peakStep = step
		}
		if pop == 0 && res.extinctAt < 0 {
			res.extinctAt = step
		}
		res.steps = step
	}
	snap := sess.Snapshot()
	res.final = snap.Population()
	res.stateHisto = snap.StateCounts()
	return res, nil
}
