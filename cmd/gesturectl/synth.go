package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/gesture/trace"
)

type synthOptions struct {
	frame  float64
	frames int
	hold   float64
	name   string
}

func newSynthCmd() *cobra.Command {
	opts := &synthOptions{}

	cmd := &cobra.Command{
		Use:   "synth <click|drag|hold> <x,y> [<x,y>]",
		Short: "Write a synthesized mouse trace to stdout",
		Example: "  gesturectl synth click 10,10\n" +
			"  gesturectl synth drag 10,10 200,10 --frames 8\n" +
			"  gesturectl synth hold 50,50 --hold 800",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := synthesize(opts, args)
			if err != nil {
				return err
			}
			return trace.Write(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().Float64Var(&opts.frame, "frame", trace.DefaultFrame, "Milliseconds between events")
	cmd.Flags().IntVar(&opts.frames, "frames", 8, "Frames a drag takes, including press and release")
	cmd.Flags().Float64Var(&opts.hold, "hold", 600, "Milliseconds a hold keeps the button down")
	cmd.Flags().StringVar(&opts.name, "name", "", "Trace name")

	return cmd
}

func synthesize(opts *synthOptions, args []string) (*trace.File, error) {
	x, y, err := parsePoint(args[1])
	if err != nil {
		return nil, err
	}
	b := trace.NewBuilder(opts.frame)

	switch args[0] {
	case "click":
		if len(args) != 2 {
			return nil, fmt.Errorf("click takes one point")
		}
		b.Click(x, y)
	case "hold":
		if len(args) != 2 {
			return nil, fmt.Errorf("hold takes one point")
		}
		b.Hold(x, y, opts.hold)
	case "drag":
		if len(args) != 3 {
			return nil, fmt.Errorf("drag takes two points")
		}
		toX, toY, err := parsePoint(args[2])
		if err != nil {
			return nil, err
		}
		b.Drag(x, y, toX, toY, opts.frames)
	default:
		return nil, fmt.Errorf("unknown action %q", args[0])
	}

	f := b.File()
	f.Name = opts.name
	return f, nil
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	return x, y, nil
}
