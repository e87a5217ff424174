package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"summon/pkg/config"
	"summon/pkg/global"
	"summon/pkg/logger"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	debug      bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "summon",
		Short:        "Toggle an application window with a double key press",
		Long:         "summon listens for a double press of a single key and shows, hides or launches the configured application window on X11, Sway, Hyprland or GNOME Shell.",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")

	root.AddCommand(
		newRunCmd(opts),
		newToggleCmd(opts),
		newStatusCmd(opts),
		newProbeCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *options) newLogger() (*logger.Logger, error) {
	level := zerolog.InfoLevel
	if o.debug {
		level = zerolog.DebugLevel
	}

	logOpts := []logger.Option{logger.WithConsole(), logger.WithLevel(level)}
	if o.logFile != "" {
		logOpts = append(logOpts, logger.WithFile(o.logFile))
	}

	log, err := logger.NewLogger(logOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// setup creates the logger, resolves the configuration and initializes the
// globals. The caller closes the returned logger.
func (o *options) setup() (*logger.Logger, *config.Config, error) {
	log, err := o.newLogger()
	if err != nil {
		return nil, nil, err
	}

	log.Debug("Loading configuration", "provided_path", o.configPath)
	cfg, err := config.FindConfig(o.configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", err, "provided_path", o.configPath)
		log.Close()
		return nil, nil, err
	}

	global.InitGlobals(cfg, log)
	return log, cfg, nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
