package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/demo"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gbavram",
	Short: "Drive and inspect a simulated tile and sprite video memory",
	Long: `gbavram runs a procedural scene through the background tile cache, the
scrolling map layers and the object attribute table of a simulated handheld
display, and shows or dumps the resulting video memory.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		level := logger.ParseLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger.Init(logger.Options{Enabled: true, Level: level})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func sceneOptions(c *config.Config) demo.Options {
	return demo.Options{Sprites: c.Sprites, ScrollSpeed: c.ScrollSpeed, Seed: c.Seed}
}
