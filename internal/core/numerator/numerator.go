// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in the storage layer (sys_sequences in PostgreSQL, a
// counter map in the in-memory store).
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Document prefixes.
const (
	PrefixSale     = "RCP"
	PrefixPurchase = "PO"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict reserves every number with one UPSERT ... RETURNING.
	// Gapless as long as the enclosing transaction commits.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers and hands them out from memory.
	// May leave gaps after a restart.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached. Default 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "RCP", "PO")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns PREFIX-YYYY-NNNNN numbering reset yearly.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// Key returns the sequence key for cfg in period.
func (c Config) Key(period time.Time) string {
	switch c.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", c.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", c.Prefix, period.Format("2006"))
	default:
		return c.Prefix
	}
}

// Format renders sequence value n, e.g. RCP-2026-00042.
func (c Config) Format(period time.Time, n int64) string {
	pad := c.PadWidth
	if pad == 0 {
		pad = 5
	}
	if c.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", c.Prefix, period.Format("2006"), pad, n)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, pad, n)
}

// Generator generates sequential document numbers.
type Generator interface {
	// GetNextNumber generates the next document number for cfg in period.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber overrides the current sequence value (data imports).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

// Next is a shortcut for the default yearly config.
func Next(ctx context.Context, g Generator, prefix string, period time.Time) (string, error) {
	return g.GetNextNumber(ctx, DefaultConfig(prefix), nil, period)
}
