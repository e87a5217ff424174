package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"summon/internal/app"
	"summon/internal/ipc"
	"summon/internal/wm"
	"summon/pkg/global"
)

const defaultRequestTimeout = 5 * time.Second

func newToggleCmd(opts *options) *cobra.Command {
	var local bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the window through the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			if local {
				manager := wm.NewManager(cfg, log, global.GetNotifier())
				defer manager.Close()
				action := app.Toggle(manager, cfg, log)
				fmt.Fprintln(cmd.OutOrStdout(), "Window "+action.String())
				return nil
			}

			resp, err := ipc.SendCommand(ipc.SocketPath(), ipc.CommandToggle, timeout, log)
			if err != nil {
				return fmt.Errorf("%w (use --local to toggle without a daemon)", err)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "toggle in this process instead of asking the daemon")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultRequestTimeout, "how long to wait for the daemon")
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.newLogger()
			if err != nil {
				return err
			}
			defer log.Close()

			resp, err := ipc.SendCommand(ipc.SocketPath(), ipc.CommandStatus, timeout, log)
			if err != nil {
				return err
			}
			if resp.Status != ipc.StatusSuccess {
				return errors.New(resp.Message)
			}
			return writeYAML(cmd.OutOrStdout(), resp.Data)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultRequestTimeout, "how long to wait for the daemon")
	return cmd
}

func printResponse(w io.Writer, resp ipc.Response) error {
	if resp.Status != ipc.StatusSuccess {
		return errors.New(resp.Message)
	}
	fmt.Fprintln(w, resp.Message)
	return nil
}
