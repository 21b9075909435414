//go:build ebiten

package ui

import (
	"image/color"
	"strconv"

	"cube-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 10
	lineHeight   = 15
	groupGap     = 8
)

// ParameterProvider is implemented by anything that can describe its current
// settings, such as a session.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var helpLines = []string{
	"space  start / stop",
	"n      single step (running)",
	"e      toggle editing",
	"t      type rule (editing)",
	"r      reset to seeds",
	"up/dn  change z slice",
	"click  toggle seed (editing)",
	"s / l  save / load seeds",
	"1-9    load preset",
	"q      quit",
}

// HUD renders the parameter panel to the right of the slice view.
type HUD struct {
	provider ParameterProvider
	width    int
	height   int
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot
	status   string
	slice    int
}

// NewHUD constructs a HUD for the provided parameter source and panel size.
func NewHUD(provider ParameterProvider, width, height int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{provider: provider, width: width, height: height}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// SetStatus replaces the one-line status message shown under the parameters.
func (h *HUD) SetStatus(msg string) {
	if h != nil {
		h.status = msg
	}
}

// SetSlice records the z slice currently on screen.
func (h *HUD) SetSlice(z int) {
	if h != nil {
		h.slice = z
	}
}

// Update refreshes the cached parameter snapshot.
func (h *HUD) Update() {
	if h == nil || h.provider == nil {
		return
	}
	h.snapshot = h.provider.Parameters()
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width <= 0 || h.height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.panel.Bounds().Dy() != h.height {
		h.panel = ebiten.NewImage(h.width, h.height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	heading := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	label := color.RGBA{R: 160, G: 160, B: 170, A: 255}
	value := color.RGBA{R: 235, G: 235, B: 240, A: 255}

	y := panelPadding + lineHeight
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, panelPadding, y, heading)
		y += lineHeight
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label, face, panelPadding+8, y, label)
			text.Draw(h.panel, p.Value, face, h.width/2, y, value)
			y += lineHeight
		}
		y += groupGap
	}
	text.Draw(h.panel, "View", face, panelPadding, y, heading)
	y += lineHeight
	text.Draw(h.panel, "Slice z", face, panelPadding+8, y, label)
	text.Draw(h.panel, strconv.Itoa(h.slice), face, h.width/2, y, value)
	y += lineHeight + groupGap

	for _, line := range helpLines {
		text.Draw(h.panel, line, face, panelPadding, y, label)
		y += lineHeight
	}
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, h.height-panelPadding, color.RGBA{R: 255, G: 170, B: 60, A: 255})
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
