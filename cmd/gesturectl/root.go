package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/internal/logging"
)

type rootFlags struct {
	logLevel    string
	logFormat   string
	optionsPath string
}

// logger builds the logger selected by the persistent flags, writing to the
// command's error stream.
func (f *rootFlags) logger(cmd *cobra.Command) (zerolog.Logger, error) {
	return logging.New(logging.Options{
		Level:     f.logLevel,
		Format:    logging.Format(f.logFormat),
		Writer:    cmd.ErrOrStderr(),
		Component: cmd.Name(),
	})
}

// options loads --options over the defaults, or returns the defaults.
func (f *rootFlags) options() (gesture.Options, error) {
	if f.optionsPath == "" {
		return gesture.DefaultOptions(), nil
	}
	return gesture.LoadOptions(f.optionsPath)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gesturectl",
		Short:         "Replay input traces and serve the gesture bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", string(logging.FormatConsole), "Log format (console or json)")
	cmd.PersistentFlags().StringVarP(&flags.optionsPath, "options", "o", "", "Options file (.yaml, .yml or .toml)")

	cmd.AddCommand(newReplayCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newSynthCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
