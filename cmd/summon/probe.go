package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"summon/internal/wm"
	"summon/pkg/global"
)

// probeReport is the YAML output of the probe command.
type probeReport struct {
	Backend            string `yaml:"backend"`
	Flavor             string `yaml:"flavor"`
	Pattern            string `yaml:"pattern"`
	Found              bool   `yaml:"found"`
	Window             string `yaml:"window,omitempty"`
	OnCurrentWorkspace bool   `yaml:"on_current_workspace"`
	Visible            bool   `yaml:"visible"`
}

func newProbeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show the detected backend and whether the configured window exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Close()

			manager := wm.NewManager(cfg, log, global.GetNotifier())
			defer manager.Close()

			report := probe(manager, cfg.AppMatchPattern)
			report.Flavor = manager.Flavor().String()
			return writeYAML(cmd.OutOrStdout(), report)
		},
	}
}

func probe(w wm.WindowManager, pattern string) probeReport {
	report := probeReport{Backend: w.Name(), Flavor: wm.FlavorNone.String(), Pattern: pattern}

	h, ok := w.FindWindow(pattern)
	if !ok {
		return report
	}
	report.Found = true
	report.Window = fmt.Sprintf("0x%x", uint64(h))
	report.OnCurrentWorkspace = w.IsOnCurrentWorkspace(h)
	report.Visible = w.IsVisible(h)
	return report
}
