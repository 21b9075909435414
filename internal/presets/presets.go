// Package presets registers the bundled demo rules with the core registry.
package presets

import "cube-ca/internal/core"

const (
	CrystalGrowth1 = "crystal-growth-1"
	CrystalGrowth2 = "crystal-growth-2"
	SlimeWall      = "slime-wall"
)

func init() {
	core.Register(CrystalGrowth1, core.Preset{
		Rule:  "0-6/1,3/2/N",
		Seeds: []core.Seed{{X: 25, Y: 25, Z: 25}},
	})
	core.Register(CrystalGrowth2, core.Preset{
		Rule:  "1-2/1,3/5/N",
		Seeds: []core.Seed{{X: 25, Y: 25, Z: 25}},
	})
	core.Register(SlimeWall, core.Preset{
		Rule: "4/4/5/M",
		Seeds: []core.Seed{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: 1, Z: 2},
			{X: 1, Y: 2, Z: 2},
			{X: 2, Y: 2, Z: 2},
		},
	})
}
