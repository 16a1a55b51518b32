package engine

import (
	"log"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute() and Render()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger     *log.Logger
	Style      Style
	BinLabeler BinLabeler // overrides ChartDef.BinLabel when set
}

// WithLogger routes engine logging to l.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithStyle replaces the default dashboard colors.
// A ChartDef palette still takes precedence for its own chart.
func WithStyle(s Style) Option {
	return func(c *config) {
		c.Style = s
	}
}

// WithBinLabeler labels every histogram bin with fn.
func WithBinLabeler(fn BinLabeler) Option {
	return func(c *config) {
		c.BinLabeler = fn
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: log.Default(),
		Style:  DefaultStyle(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
