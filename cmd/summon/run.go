package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"summon/internal/app"
	"summon/internal/input"
	"summon/internal/ipc"
	"summon/internal/wm"
	"summon/pkg/global"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the daemon (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, opts)
		},
	}
}

func runDaemon(cmd *cobra.Command, opts *options) error {
	log, cfg, err := opts.setup()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting summon",
		"version", version,
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", opts.debug)
	log.Info("Configuration loaded",
		"source", cfg.Source,
		"app_name", cfg.AppMatchPattern,
		"app_path", cfg.AppLaunchPath,
		"hide_method", cfg.HideMethod.String())

	manager := wm.NewManager(cfg, log, global.GetNotifier())
	defer manager.Close()

	keys := input.NewListener(log, cfg.Devices)
	daemon := app.New(cfg, log, manager)
	if err := daemon.Serve(cmd.Context(), keys, ipc.SocketPath()); err != nil {
		log.Error("Daemon stopped", err)
		return err
	}
	return nil
}
