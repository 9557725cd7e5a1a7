// Package config holds the runtime settings shared by the CLI and the MCP
// server. Values start from built-in defaults, are overridden by EDGEFILTER_*
// environment variables, and finally by command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ironsheep/edge-filter/internal/imaging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EDGEFILTER_"

// Config is the complete runtime configuration.
type Config struct {
	LowThreshold  float64
	HighThreshold float64
	L2Gradient    bool
	BlurRadius    float64
	Backend       string

	// MaxDimension downscales decoded files before filtering. 0 keeps full size.
	MaxDimension int

	OverlayColor   string
	OverlayOpacity float64

	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	opts := imaging.DefaultOptions()
	return Config{
		LowThreshold:   opts.LowThreshold,
		HighThreshold:  opts.HighThreshold,
		Backend:        opts.Backend,
		OverlayColor:   imaging.DefaultOverlayColor,
		OverlayOpacity: 1.0,
		LogLevel:       "info",
	}
}

// Load returns Default() overridden by the process environment.
func Load() (Config, error) {
	cfg := Default()
	err := cfg.ApplyEnv(os.LookupEnv)
	return cfg, err
}

// ApplyEnv overrides fields from environment variables found through lookup.
// Unset variables leave the field alone; malformed values are an error.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"LOW", &c.LowThreshold},
		{"HIGH", &c.HighThreshold},
		{"BLUR", &c.BlurRadius},
		{"OVERLAY_OPACITY", &c.OverlayOpacity},
	}
	for _, f := range floats {
		if v, ok := get(f.name); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, f.name, err)
			}
			*f.dst = parsed
		}
	}

	if v, ok := get("L2"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sL2: %w", EnvPrefix, err)
		}
		c.L2Gradient = b
	}
	if v, ok := get("MAX_DIM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_DIM: %w", EnvPrefix, err)
		}
		c.MaxDimension = n
	}
	if v, ok := get("BACKEND"); ok {
		c.Backend = strings.ToLower(v)
	}
	if v, ok := get("OVERLAY_COLOR"); ok {
		c.OverlayColor = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// BindFilterFlags registers the filter flags on fs, using the current field
// values as defaults so that flags take precedence over the environment.
func (c *Config) BindFilterFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&c.LowThreshold, "low", c.LowThreshold, "low hysteresis threshold")
	fs.Float64Var(&c.HighThreshold, "high", c.HighThreshold, "high hysteresis threshold")
	fs.BoolVar(&c.L2Gradient, "l2", c.L2Gradient, "use the L2 gradient magnitude instead of L1")
	fs.Float64Var(&c.BlurRadius, "blur", c.BlurRadius, "Gaussian pre-smoothing radius (0 disables)")
	fs.StringVar(&c.Backend, "backend", c.Backend, "filter backend: native or opencv")
}

// BindOutputFlags registers flags that affect file loading and rendering.
func (c *Config) BindOutputFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.MaxDimension, "max-dim", c.MaxDimension, "downscale inputs larger than this many pixels per side (0 keeps full size)")
	fs.StringVar(&c.OverlayColor, "overlay-color", c.OverlayColor, "edge color for --overlay output")
	fs.Float64Var(&c.OverlayOpacity, "opacity", c.OverlayOpacity, "edge opacity for --overlay output, in (0, 1]")
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.FilterOptions().Validate(); err != nil {
		return err
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension must not be negative, got %d", c.MaxDimension)
	}
	if c.OverlayOpacity <= 0 || c.OverlayOpacity > 1 {
		return fmt.Errorf("overlay opacity must be in (0, 1], got %v", c.OverlayOpacity)
	}
	return nil
}

// FilterOptions converts the filter fields to imaging.Options.
func (c Config) FilterOptions() imaging.Options {
	return imaging.Options{
		LowThreshold:  c.LowThreshold,
		HighThreshold: c.HighThreshold,
		L2Gradient:    c.L2Gradient,
		BlurRadius:    c.BlurRadius,
		Backend:       c.Backend,
	}
}
