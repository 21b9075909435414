package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"cube-ca/internal/app"
	_ "cube-ca/internal/presets"
	"cube-ca/internal/seedfile"
	"cube-ca/internal/session"
)

func main() {
	cfg := app.NewConfig()
	cfg.Seeds = ""
	cfg.Bind(flag.CommandLine)
	generations := flag.Int("generations", 30, "generations to simulate before exiting")
	report := flag.Duration("report", 2*time.Second, "how often to log progress while the driver runs")
	dump := flag.String("dump", "", "write the live cells of the final generation to this seed file")
	flag.Parse()

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("bad flags", "err", err)
	}
	sc := cfg.SessionConfig()
	if cfg.Seeds != "" {
		seeds, err := seedfile.LoadFile(cfg.Seeds, sc.GridSize)
		if err != nil {
			logger.Fatal("loading seeds", "path", cfg.Seeds, "err", err)
		}
		sc.Seeds = seeds
	}

	sess, err := session.New(sc, logger)
	if err != nil {
		logger.Fatal("creating session", "err", err)
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sess.Start(); err != nil {
		logger.Fatal("starting session", "rule", sess.CurrentRuleString(), "err", err)
	}

	start := time.Now()
	if sc.Interval == 0 {
		err = runManual(ctx, sess, *generations)
	} else {
		err = runDriven(ctx, sess, *generations, *report, logger)
	}
	sess.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("simulation failed", "err", err)
	}

	snap := sess.Snapshot()
	logger.Info("finished",
		"rule", sess.CurrentRuleString(),
		"generation", snap.Generation(),
		"population", snap.Population(),
		"states", snap.StateCounts(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if *dump != "" {
		if err := seedfile.SaveFile(*dump, snap.LiveCells()); err != nil {
			logger.Fatal("writing dump", "path", *dump, "err", err)
		}
		logger.Info("wrote live cells", "path", *dump, "count", snap.Population())
	}
}

// runManual ticks as fast as possible on the calling goroutine.
func runManual(ctx context.Context, sess *session.Session, generations int) error {
	for sess.Generation() < generations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := sess.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// runDriven waits for the session's own driver to reach the target generation.
func runDriven(ctx context.Context, sess *session.Session, generations int, every time.Duration, logger *log.Logger) error {
	if every <= 0 {
		every = 2 * time.Second
	}
	progress := time.NewTicker(every)
	defer progress.Stop()
	poll := time.NewTicker(10 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-progress.C:
			snap := sess.Snapshot()
			logger.Info("progress", "generation", snap.Generation(), "population", snap.Population())
		case <-poll.C:
		}
		if sess.Generation() >= generations {
			return nil
		}
		if sess.State() != session.Running {
			return errors.New("session stopped before reaching the target generation")
		}
	}
}
