//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"cube-ca/internal/app"
	_ "cube-ca/internal/presets"
	"cube-ca/internal/seedfile"
	"cube-ca/internal/session"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
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
		switch {
		case err == nil:
			sc.Seeds = seeds
		case errors.Is(err, os.ErrNotExist):
		default:
			logger.Fatal("loading seeds", "path", cfg.Seeds, "err", err)
		}
	}

	sess, err := session.New(sc, logger)
	if err != nil {
		logger.Fatal("creating session", "err", err)
	}
	defer sess.Close()

	game := app.New(sess, cfg, logger)
	width, height := game.Layout(0, 0)

	ebiten.SetWindowTitle("cube-ca: " + sess.CurrentRuleString())
	ebiten.SetWindowSize(width, height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("viewer exited", "err", err)
	}
}
