package session

import (
	"strconv"
	"time"

	"cube-ca/internal/core"
)

// Config holds everything needed to construct a Session. It is validated as a
// whole by New.
type Config struct {
	GridSize int
	// Interval between ticks of the session-owned driver. Zero disables the
	// driver; the caller then advances the session with Tick.
	Interval time.Duration
	Rule     string
	Seeds    []core.Seed
}

// DefaultConfig returns the standard configuration: a 50³ grid growing a
// face-neighbor crystal from its center every 300ms.
func DefaultConfig() Config {
	return Config{
		GridSize: 50,
		Interval: 300 * time.Millisecond,
		Rule:     "0-6/1,3/2/N",
		Seeds:    []core.Seed{{X: 25, Y: 25, Z: 25}},
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
// A "preset" key is applied first so explicit keys can override it.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["preset"]; ok {
		if p, ok := core.Presets()[v]; ok {
			c.Rule = p.Rule
			c.Seeds = append([]core.Seed(nil), p.Seeds...)
			if p.GridSize > 0 {
				c.GridSize = p.GridSize
			}
		}
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.GridSize = parsed
		}
	}
	if v, ok := cfg["interval_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Interval = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["rule"]; ok && v != "" {
		c.Rule = v
	}
	return c
}
