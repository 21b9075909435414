package core

import "sort"

// Preset bundles a rule string with the seeds it was designed around.
type Preset struct {
	Name  string
	Rule  string
	Seeds []Seed
	// GridSize is applied when positive; zero keeps the session's grid size.
	GridSize int
}

var presets = map[string]Preset{}

// Register adds a preset under the provided name.
func Register(name string, p Preset) {
	if name == "" {
		return
	}
	p.Name = name
	presets[name] = p
}

// Presets exposes the registry of available presets.
func Presets() map[string]Preset {
	return presets
}

// PresetNames returns the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
