package main

import (
	"github.com/spf13/cobra"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/demo"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/ui"
)

var viewScale int

func init() {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window with the running scene and the memory inspector",
		Long: `The view command runs the demo scene in a window next to the selected
inspector panels.

Keys:
  P       pause
  N       step one frame while paused
  Tab     fast forward
  F12     save a screenshot of the window contents
  Escape  inspector menu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("scale") {
				cfg.Scale = viewScale
			}
			return runView()
		},
	}
	cmd.Flags().IntVar(&viewScale, "scale", 3, "window scale")
	rootCmd.AddCommand(cmd)
}

func runView() error {
	mem := hw.NewMemory()
	d, err := display.New(mem)
	if err != nil {
		return err
	}
	defer d.Close()

	scene := demo.New(d, sceneOptions(cfg))
	defer scene.Close()

	return ui.NewApp(cfg, mem, scene).Run()
}
