package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/demo"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
)

var (
	dumpFrames  int
	dumpJSON    bool
	dumpObjects bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Report register and allocator state after running the scene",
		Long: `The dump command steps the scene and prints the display control and
background registers together with tile cache, object table and sprite
memory usage.

Example:
  gbavram dump --frames 60
  gbavram dump --frames 60 --objects --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := collectDump(cfg, dumpFrames, dumpObjects)
			if err != nil {
				return err
			}
			if dumpJSON {
				return printJSON(os.Stdout, r)
			}
			return printDump(os.Stdout, r)
		},
	}
	cmd.Flags().IntVar(&dumpFrames, "frames", 1, "frames to run before dumping")
	cmd.Flags().BoolVar(&dumpJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&dumpObjects, "objects", false, "List visible object rows")
	rootCmd.AddCommand(cmd)
}

type layerReport struct {
	ID          int  `json:"id"`
	Enabled     bool `json:"enabled"`
	Priority    int  `json:"priority"`
	Screenblock int  `json:"screenblock"`
	ScrollX     int  `json:"scroll_x"`
	ScrollY     int  `json:"scroll_y"`
}

type objectReport struct {
	Row      int    `json:"row"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Size     string `json:"size"`
	Tile     int    `json:"tile"`
	Palette  int    `json:"palette"`
	Priority int    `json:"priority"`
	HFlip    bool   `json:"hflip"`
	VFlip    bool   `json:"vflip"`
}

type dumpReport struct {
	Frames         int            `json:"frames"`
	DisplayControl uint16         `json:"display_control"`
	Layers         []layerReport  `json:"layers"`
	TileSlots      int            `json:"tile_slots"`
	CachedTiles    int            `json:"cached_tiles"`
	LayersInUse    int            `json:"layers_in_use"`
	FreeObjects    int            `json:"free_objects"`
	Palettes       int            `json:"sprite_palettes"`
	SpriteFree     uint32         `json:"sprite_memory_free"`
	Objects        []objectReport `json:"objects,omitempty"`
}

func collectDump(c *config.Config, frames int, withObjects bool) (*dumpReport, error) {
	mem := hw.NewMemory()
	d, err := display.New(mem)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	scene := demo.New(d, sceneOptions(c))
	defer scene.Close()
	for i := 0; i < frames; i++ {
		scene.Step()
	}

	dispcnt := mem.Read16(hw.DisplayControl)
	r := &dumpReport{
		Frames:         frames,
		DisplayControl: dispcnt,
		TileSlots:      d.VRAM().SlotsInUse(),
		CachedTiles:    d.VRAM().CachedTiles(),
		LayersInUse:    d.Tiled0().InUse(),
		FreeObjects:    d.Objects().FreeObjects(),
		Palettes:       d.Objects().PalettesInUse(),
		SpriteFree:     d.Objects().SpriteMemoryAvailable(),
	}
	for id := uint8(0); id < 4; id++ {
		cnt := mem.Read16(hw.BGControl(id))
		r.Layers = append(r.Layers, layerReport{
			ID:          int(id),
			Enabled:     dispcnt&(hw.DispBG0<<id) != 0,
			Priority:    int(cnt & 3),
			Screenblock: int(cnt >> 8 & 0x1f),
			ScrollX:     int(mem.Read16(hw.BGHOffset(id)) & 0x1ff),
			ScrollY:     int(mem.Read16(hw.BGVOffset(id)) & 0x1ff),
		})
	}
	if withObjects {
		r.Objects = visibleObjects(mem)
	}
	return r, nil
}

// visibleObjects decodes every object table row that is not disabled.
func visibleObjects(b hw.Bus) []objectReport {
	var out []objectReport
	for row := 0; row < object.NumObjects; row++ {
		base := hw.OAM + uint32(row)*8
		a0, a1, a2 := b.Read16(base), b.Read16(base+2), b.Read16(base+4)
		if object.Mode(a0>>8&3) == object.ModeDisabled || a0>>14 == 3 {
			continue
		}
		out = append(out, objectReport{
			Row:      row,
			X:        int(a1 & 0x1ff),
			Y:        int(a0 & 0xff),
			Size:     object.Size(a0>>14<<2 | a1>>14).String(),
			Tile:     int(a2 & 0x3ff),
			Palette:  int(a2 >> 12),
			Priority: int(a2 >> 10 & 3),
			HFlip:    a1&(1<<12) != 0,
			VFlip:    a1&(1<<13) != 0,
		})
	}
	return out
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printDump(w io.Writer, r *dumpReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "frames\t%d\n", r.Frames)
	fmt.Fprintf(tw, "DISPCNT\t%#04x\n", r.DisplayControl)
	fmt.Fprintf(tw, "tile slots\t%d (%d cached)\n", r.TileSlots, r.CachedTiles)
	fmt.Fprintf(tw, "layers in use\t%d\n", r.LayersInUse)
	fmt.Fprintf(tw, "free objects\t%d\n", r.FreeObjects)
	fmt.Fprintf(tw, "sprite palettes\t%d\n", r.Palettes)
	fmt.Fprintf(tw, "sprite memory free\t%d bytes\n", r.SpriteFree)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "BG\tON\tPRIO\tSB\tSCROLL")
	for _, l := range r.Layers {
		fmt.Fprintf(tw, "%d\t%t\t%d\t%d\t%d,%d\n", l.ID, l.Enabled, l.Priority, l.Screenblock, l.ScrollX, l.ScrollY)
	}
	if len(r.Objects) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ROW\tPOS\tSIZE\tTILE\tPAL\tPRIO\tFLIP")
		for _, o := range r.Objects {
			flip := ""
			if o.HFlip {
				flip += "h"
			}
			if o.VFlip {
				flip += "v"
			}
			fmt.Fprintf(tw, "%d\t%d,%d\t%s\t%d\t%d\t%d\t%s\n", o.Row, o.X, o.Y, o.Size, o.Tile, o.Palette, o.Priority, flip)
		}
	}
	return tw.Flush()
}
