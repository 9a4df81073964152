// Package logging builds the zerolog loggers used by gesturectl and the
// bridge.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level  string
	Format Format
	Writer io.Writer
	// Component, when set, is added to every entry.
	Component string
}

// New creates a zerolog.Logger from opts. The default is info level,
// console format, writing to stderr.
func New(opts Options) (zerolog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var output io.Writer
	switch opts.Format {
	case FormatConsole, "":
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	case FormatJSON:
		output = writer
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", opts.Format)
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return ctx.Logger(), nil
}
