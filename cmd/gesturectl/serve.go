package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/gesture/bridge"
)

type serveOptions struct {
	addr           string
	allowAnyOrigin bool
	recordDir      string
	keepTraces     int
	tick           time.Duration
}

func newServeCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the WebSocket gesture bridge and its test page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().BoolVar(&opts.allowAnyOrigin, "allow-any-origin", false, "Accept WebSocket connections from any origin")
	cmd.Flags().StringVar(&opts.recordDir, "record-dir", "", "Directory to save one trace per session")
	cmd.Flags().IntVar(&opts.keepTraces, "keep-traces", 32, "Closed sessions served at /traces/{session}; negative disables")
	cmd.Flags().DurationVar(&opts.tick, "tick", 16*time.Millisecond, "Interval for running deferred gestures")

	return cmd
}

func runServe(cmd *cobra.Command, rootFlags *rootFlags, opts *serveOptions) error {
	log, err := rootFlags.logger(cmd)
	if err != nil {
		return err
	}
	base, err := rootFlags.options()
	if err != nil {
		return err
	}
	if opts.recordDir != "" {
		if err := os.MkdirAll(opts.recordDir, 0o755); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := bridge.NewServer(bridge.Config{
		Base:           base,
		AllowAnyOrigin: opts.allowAnyOrigin,
		TickInterval:   opts.tick,
		RecordDir:      opts.recordDir,
		KeepTraces:     opts.keepTraces,
		Logger:         log,
	})
	return srv.ListenAndServe(ctx, opts.addr)
}
