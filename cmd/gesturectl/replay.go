package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/trace"
)

type replayOptions struct {
	jsonOutput bool
	check      bool
}

func newReplayCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay trace files and print the recognized gestures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, rootFlags, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Fail when a trace's gestures differ from its expect list")

	return cmd
}

type replayReport struct {
	Trace  string           `json:"trace"`
	Name   string           `json:"name,omitempty"`
	Events []trace.Recorded `json:"events"`
	Error  string           `json:"error,omitempty"`
}

func runReplay(cmd *cobra.Command, rootFlags *rootFlags, opts *replayOptions, paths []string) error {
	log, err := rootFlags.logger(cmd)
	if err != nil {
		return err
	}
	base, err := rootFlags.options()
	if err != nil {
		return err
	}

	var reports []replayReport
	var failures []error
	for _, path := range paths {
		f, err := trace.Load(path)
		if err != nil {
			return err
		}
		res, err := trace.Replay(f, base, log.With().Str("trace", path).Logger())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		report := replayReport{Trace: path, Name: f.Name, Events: res.Events}
		if opts.check {
			if err := res.Check(f.Expect); err != nil {
				report.Error = err.Error()
				failures = append(failures, fmt.Errorf("%s: %w", path, err))
			}
		}
		reports = append(reports, report)
	}

	if opts.jsonOutput {
		if err := renderReplayJSON(cmd.OutOrStdout(), reports); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		renderReplayText(out, reports, supportsColor(out))
	}
	return errors.Join(failures...)
}

func renderReplayJSON(w io.Writer, reports []replayReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// supportsColor reports whether w is a terminal worth styling.
func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func renderReplayText(w io.Writer, reports []replayReport, color bool) {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}
	for _, r := range reports {
		title := r.Trace
		if r.Name != "" {
			title += " (" + r.Name + ")"
		}
		fmt.Fprintln(w, style(titleStyle, title))
		if len(r.Events) == 0 {
			fmt.Fprintln(w, style(mutedStyle, "  no gestures"))
		}
		for _, e := range r.Events {
			fmt.Fprintf(w, "  %8.1fms  %s %s\n", e.AtMs, style(typeStyle, fmt.Sprintf("%-9s", e.Type)), describe(e.Gesture))
		}
		if r.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", style(failStyle, "FAIL:"), r.Error)
		}
	}
}

func describe(e gesture.Event) string {
	switch g := e.(type) {
	case gesture.Tap:
		return fmt.Sprintf("x=%g y=%g count=%d", g.X, g.Y, g.Count)
	case gesture.Swipe:
		return fmt.Sprintf("direction=%s distance=%.1f velocity=%.2fpx/ms", g.Direction, g.Distance, g.Velocity)
	case gesture.Pinch:
		return fmt.Sprintf("center=(%g,%g) scale=%.3f rotation=%.1f", g.CenterX, g.CenterY, g.Scale, g.Rotation)
	case gesture.LongPress:
		return fmt.Sprintf("x=%g y=%g", g.X, g.Y)
	}
	return strings.TrimSpace(fmt.Sprint(e))
}
