//go:build ebiten

package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cube-ca/internal/core"
	"cube-ca/internal/render"
	"cube-ca/internal/seedfile"
	"cube-ca/internal/session"
	"cube-ca/internal/ui"
)

const (
	hudWidth  = 300
	hudHeight = 580
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game adapts a session to the ebiten.Game interface, showing one z slice of
// the cube at a time.
type Game struct {
	sess    *session.Session
	logger  *log.Logger
	painter *render.SlicePainter
	hud     *ui.HUD
	hudStep *core.FixedStep

	scale    int
	z        int
	seedPath string
	presets  []string

	rule  ruleField
	chars []rune
}

// New constructs a Game for the provided session.
func New(sess *session.Session, cfg *Config, logger *log.Logger) *Game {
	n := sess.GridSize()
	return &Game{
		sess:     sess,
		logger:   logger,
		painter:  render.NewSlicePainter(n),
		hud:      ui.NewHUD(sess, hudWidth, hudHeight),
		hudStep:  core.NewFixedStep(250 * time.Millisecond),
		scale:    cfg.Scale,
		z:        n / 2,
		seedPath: cfg.Seeds,
		presets:  core.PresetNames(),
	}
}

// Update handles per-frame input. Generations advance on the session's own
// driver; the frame loop only reads snapshots.
func (g *Game) Update() error {
	if g.rule.active {
		g.updateRuleField()
		g.hud.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	n := g.sess.GridSize()
	forceHUD := false

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.toggleRunning()
		forceHUD = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.step()
		forceHUD = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) && g.sess.State() == session.Editing {
		g.rule.begin(g.sess.CurrentRuleString())
		g.hud.SetStatus("rule: " + g.rule.text() + "_")
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if g.sess.State() == session.Editing {
			g.sess.ExitEditing()
		} else {
			g.sess.EnterEditing()
		}
		forceHUD = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sess.Stop()
		g.sess.Reset()
		forceHUD = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.z = clampSlice(g.z+1, n)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.z = clampSlice(g.z-1, n)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveSeeds()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.loadSeeds()
		forceHUD = true
	}
	for i, key := range digitKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.loadPreset(i + 1)
			forceHUD = true
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.toggleSeed(mx, my, n)
		forceHUD = true
	}

	g.z = clampSlice(g.z, g.sess.GridSize())
	g.hud.SetSlice(g.z)
	if g.hudStep.ShouldStep() || forceHUD {
		g.hud.Update()
	}
	return nil
}

func (g *Game) toggleRunning() {
	if g.sess.State() == session.Running {
		g.sess.Stop()
		return
	}
	if err := g.sess.Start(); err != nil {
		g.status("start: %v", err)
		return
	}
	g.status("")
}

func (g *Game) step() {
	advanced, err := g.sess.Tick()
	switch {
	case err != nil:
		g.status("tick: %v", err)
	case !advanced:
		g.status("step needs a running session")
	}
}

// updateRuleField feeds typed characters into the rule field. Enter applies
// the rule, Escape discards it.
func (g *Game) updateRuleField() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.rule.cancel()
		g.status("")
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		text := g.rule.text()
		g.rule.cancel()
		if err := g.sess.SetRuleString(text); err != nil {
			g.status("rule: %v", err)
			return
		}
		g.status("rule %s", text)
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.rule.backspace()
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	g.rule.insert(g.chars)
	g.hud.SetStatus("rule: " + g.rule.text() + "_")
}

func (g *Game) toggleSeed(mx, my, n int) {
	if g.sess.State() != session.Editing {
		return
	}
	seed, ok := pickCell(mx, my, g.scale, n, g.z)
	if !ok {
		return
	}
	for _, s := range g.sess.Seeds() {
		if s == seed {
			if err := g.sess.RemoveSeed(seed); err != nil {
				g.status("remove seed: %v", err)
			}
			return
		}
	}
	if err := g.sess.AddSeed(seed); err != nil {
		g.status("add seed: %v", err)
	}
}

func (g *Game) saveSeeds() {
	if err := seedfile.SaveFile(g.seedPath, g.sess.Seeds()); err != nil {
		g.status("save: %v", err)
		return
	}
	g.status("saved %s", g.seedPath)
}

func (g *Game) loadSeeds() {
	seeds, err := seedfile.LoadFile(g.seedPath, g.sess.GridSize())
	if err != nil {
		g.status("load: %v", err)
		return
	}
	g.sess.Reseed(seeds)
	g.status("loaded %d seeds", len(seeds))
}

func (g *Game) loadPreset(digit int) {
	name, ok := presetForKey(g.presets, digit)
	if !ok {
		return
	}
	if err := g.sess.LoadPreset(core.Presets()[name]); err != nil {
		g.status("preset: %v", err)
		return
	}
	g.status("preset %s", name)
}

func (g *Game) status(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if msg != "" {
		g.logger.Info(msg)
	}
	g.hud.SetStatus(msg)
}

// Draw renders the current slice and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.sess.Snapshot()
	n := snap.Size()
	if g.painter.Size() != n {
		g.painter = render.NewSlicePainter(n)
	}
	palette := render.StatePalette(g.sess.Rule().MaxState())
	g.painter.Blit(screen, snap, g.z, palette, g.scale)
	g.hud.Draw(screen, n*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := g.sess.GridSize() * g.scale
	return side + g.hud.Width(), max(side, hudHeight)
}
