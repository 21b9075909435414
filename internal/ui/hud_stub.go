//go:build !ebiten

package ui

import "cube-ca/internal/core"

// ParameterProvider is implemented by anything that can describe its current
// settings, such as a session.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(ParameterProvider, int, int) *HUD { return nil }

// Width reports zero in the headless build.
func (h *HUD) Width() int { return 0 }

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(string) {}

// SetSlice is a no-op in the headless build.
func (h *HUD) SetSlice(int) {}

// Update is a no-op in the headless build.
func (h *HUD) Update() {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int) {}
