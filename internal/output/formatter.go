package output

import (
	"fmt"
	"io"

	"github.com/roh-tools/trailbulk/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs the report in a table format (kubectl-style)
	FormatTable Format = "table"
	// FormatJSON outputs the report in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs the report in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for rendering a finished run
type Formatter interface {
	// FormatReport writes the report to the writer
	FormatReport(w io.Writer, report executor.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// Reservation is the reservation the run targeted. When set,
	// formatters include it so saved output stays meaningful on its own.
	Reservation string

	// Site is the Trail site the run targeted
	Site string

	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool
}

// WithReservation records the reservation the run targeted
func WithReservation(reservation string) Option {
	return func(o *Options) {
		o.Reservation = reservation
	}
}

// WithSite records the Trail site the run targeted
func WithSite(site string) Option {
	return func(o *Options) {
		o.Site = site
	}
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// NewFormatter creates a new formatter for the named format. An empty
// format selects the table formatter. Unknown formats are rejected here so
// a typo fails before any browser session is started.
func NewFormatter(format Format, opts ...Option) (Formatter, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options), nil
	case FormatYAML:
		return NewYAMLFormatter(options), nil
	case FormatTable, "":
		return NewTableFormatter(options), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected table, json, or yaml)", format)
	}
}
