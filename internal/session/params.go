package session

import (
	"cube-ca/internal/core"
	"cube-ca/internal/rule"
)

// Parameters reports the session's current settings for display.
func (s *Session) Parameters() core.ParameterSnapshot {
	s.mu.RLock()
	state, gen, n, spec, grid := s.state, s.gen, s.n, s.spec, s.grid
	seeds := len(s.seeds)
	s.mu.RUnlock()

	groups := []core.ParameterGroup{
		{
			Name: "Session",
			Params: []core.Parameter{
				core.StringParam("state", "State", state.String()),
				core.IntParam("generation", "Generation", gen),
				core.IntParam("population", "Population", grid.Population()),
				core.IntParam("interval_ms", "Interval (ms)", int(s.interval.Milliseconds())),
			},
		},
		{
			Name: "Rule",
			Params: []core.Parameter{
				core.StringParam("rule", "Rule", spec.String()),
				core.StringParam("survive", "Survive", spec.Survive().String()),
				core.StringParam("birth", "Birth", spec.Birth().String()),
				core.IntParam("states", "States", spec.NumStates()),
				core.StringParam("neighborhood", "Neighborhood", neighborhoodLabel(spec.Neighborhood())),
				core.BoolParam("usable", "Usable", rule.Usable(spec)),
			},
		},
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("n", "Size", n),
				core.IntParam("seeds", "Seeds", seeds),
				core.IntParam("cells", "Cells", n*n*n),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func neighborhoodLabel(nb rule.Neighborhood) string {
	switch nb {
	case rule.Moore:
		return "M (26 cube)"
	case rule.VonNeumann:
		return "N (6 face)"
	default:
		return nb.String() + " (unknown)"
	}
}
