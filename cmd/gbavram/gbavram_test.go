package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
)

func testConfig(t *testing.T, frames int) *config.Config {
	t.Helper()
	c, err := config.Load("")
	require.NoError(t, err)
	c.Frames = frames
	c.Seed = 5
	return c
}

func TestRunHeadless_PNGAndChecksum(t *testing.T) {
	c := testConfig(t, 30)
	out := filepath.Join(t.TempDir(), "frame.png")

	crc, err := runHeadless(c, out, "", false)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, hw.Width, img.Bounds().Dx())
	assert.Equal(t, hw.Height, img.Bounds().Dy())

	again, err := runHeadless(c, "", fmt.Sprintf("0x%08X", crc), false)
	require.NoError(t, err, "same seed gives the same frame")
	assert.Equal(t, crc, again)

	_, err = runHeadless(c, "", "deadbeef", false)
	if crc != 0xdeadbeef {
		assert.ErrorContains(t, err, "checksum mismatch")
	}
}

func TestRunHeadless_Sheet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sheet.png")
	_, err := runHeadless(testConfig(t, 5), out, "", true)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, hw.Width)
}

func TestCollectDump(t *testing.T) {
	c := testConfig(t, 0)
	r, err := collectDump(c, 10, true)
	require.NoError(t, err)

	assert.Equal(t, 2, r.LayersInUse)
	assert.Equal(t, object.NumObjects-c.Sprites, r.FreeObjects)
	assert.Len(t, r.Objects, c.Sprites)
	require.Len(t, r.Layers, 4)
	assert.True(t, r.Layers[0].Enabled)
	assert.Equal(t, 16, r.Layers[0].Screenblock)
	assert.Equal(t, 3, r.Layers[0].Priority)
	assert.False(t, r.Layers[2].Enabled)

	var text bytes.Buffer
	require.NoError(t, printDump(&text, r))
	assert.Contains(t, text.String(), "free objects")
	assert.Contains(t, text.String(), "ROW")

	var js bytes.Buffer
	require.NoError(t, printJSON(&js, r))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.EqualValues(t, 10, decoded["frames"])
}
