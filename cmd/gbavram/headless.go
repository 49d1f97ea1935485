package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/demo"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/inspect"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
)

var (
	headlessFrames int
	headlessPNG    string
	headlessExpect string
	headlessSheet  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the scene without a window and checksum the screen",
		Long: `The headless command steps the scene for a number of frames, composes the
screen from video memory and prints its CRC32.

Example:
  gbavram headless --frames 600
  gbavram headless --frames 120 --outpng last.png --expect 1a2b3c4d
  gbavram headless --sheet --outpng inspector.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("frames") {
				cfg.Frames = headlessFrames
			}
			_, err := runHeadless(cfg, headlessPNG, headlessExpect, headlessSheet)
			return err
		},
	}
	cmd.Flags().IntVar(&headlessFrames, "frames", 600, "frames to run")
	cmd.Flags().StringVar(&headlessPNG, "outpng", "", "write the last frame to PNG at path")
	cmd.Flags().StringVar(&headlessExpect, "expect", "", "assert frame CRC32 (hex)")
	cmd.Flags().BoolVar(&headlessSheet, "sheet", false, "checksum and write the inspector sheet instead of the screen")
	rootCmd.AddCommand(cmd)
}

// runHeadless steps the scene and returns the checksum of the final image.
func runHeadless(c *config.Config, pngPath, expectCRC string, sheet bool) (uint32, error) {
	frames := max(c.Frames, 1)

	mem := hw.NewMemory()
	d, err := display.New(mem)
	if err != nil {
		return 0, err
	}
	defer d.Close()

	scene := demo.New(d, sceneOptions(c))
	defer scene.Close()

	start := time.Now()
	for i := 0; i < frames; i++ {
		scene.Step()
	}
	dur := time.Since(start)

	var img *image.RGBA
	if sheet {
		img = inspect.Sheet(mem, inspect.Views{Tiles: true, Palettes: true, Screenblocks: true, Preview: true})
	} else {
		img = inspect.Preview(mem)
	}
	crc := crc32.ChecksumIEEE(img.Pix)
	fps := float64(frames) / dur.Seconds()

	logger.L.Info("headless run",
		"frames", frames,
		"elapsed", dur.Truncate(time.Millisecond),
		"fps", fmt.Sprintf("%.2f", fps),
		"crc32", fmt.Sprintf("%08x", crc))
	fmt.Printf("%08x\n", crc)

	if pngPath != "" {
		if err := saveFramePNG(img, pngPath); err != nil {
			return crc, fmt.Errorf("write PNG: %w", err)
		}
		logger.L.Info("wrote frame", slog.String("path", pngPath))
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return crc, fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return crc, nil
}

func saveFramePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
