package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"cube-ca/internal/core"
	"cube-ca/internal/session"
)

// ErrUnknownPreset is returned by Validate when -preset names nothing registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Config represents the command-line parameters shared by the viewer and the
// headless runner.
type Config struct {
	Preset   string
	N        int
	Rule     string
	Interval time.Duration
	Scale    int
	Seeds    string
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults. Zero-valued
// session fields defer to session.DefaultConfig.
func NewConfig() *Config {
	return &Config{Scale: 12, Interval: -1, Seeds: "seeds.txt", LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Preset, "preset", c.Preset, "preset to start from")
	fs.IntVar(&c.N, "n", c.N, "grid edge length (default from preset or 50)")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule as survive/birth/states/neighborhood, e.g. 4/4/5/M")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between generations; negative keeps the default, 0 disables the driver")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.StringVar(&c.Seeds, "seeds", c.Seeds, "seed file to load at startup and for save/load keys")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Validate rejects flag values that SessionConfig would otherwise ignore.
func (c *Config) Validate() error {
	if c.Preset == "" {
		return nil
	}
	if _, ok := core.Presets()[c.Preset]; !ok {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, c.Preset, strings.Join(core.PresetNames(), ", "))
	}
	return nil
}

// SessionConfig translates the flags into a session configuration.
func (c *Config) SessionConfig() session.Config {
	m := map[string]string{}
	if c.Preset != "" {
		m["preset"] = c.Preset
	}
	if c.N > 0 {
		m["n"] = strconv.Itoa(c.N)
	}
	if c.Rule != "" {
		m["rule"] = c.Rule
	}
	if c.Interval >= 0 {
		m["interval_ms"] = strconv.FormatInt(c.Interval.Milliseconds(), 10)
	}
	return session.FromMap(m)
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "cube-ca",
	})
	logger.SetLevel(level)
	return logger, nil
}
