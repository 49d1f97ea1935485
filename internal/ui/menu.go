package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	menuPreview = iota
	menuTiles
	menuPalettes
	menuScreenblocks
	menuScreenshot
	menuClose
	menuItems
)

func check(on bool) string {
	if on {
		return "[x] "
	}
	return "[ ] "
}

func (a *App) menuLines() []string {
	return []string{
		"Inspector:",
		check(a.views.Preview) + "Screen preview",
		check(a.views.Tiles) + "Tile stores",
		check(a.views.Palettes) + "Palettes",
		check(a.views.Screenblocks) + "Screenblocks",
		"Save screenshot",
		"Close",
	}
}

func (a *App) updateMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < menuItems-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.selectMenu(a.menuIdx)
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) selectMenu(idx int) {
	switch idx {
	case menuPreview:
		a.views.Preview = !a.views.Preview
	case menuTiles:
		a.views.Tiles = !a.views.Tiles
	case menuPalettes:
		a.views.Palettes = !a.views.Palettes
	case menuScreenblocks:
		a.views.Screenblocks = !a.views.Screenblocks
	case menuScreenshot:
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
		return
	case menuClose:
		a.showMenu = false
		return
	}
	a.render()
	a.resize()
}

func (a *App) drawMenu(screen *ebiten.Image) {
	lines := a.menuLines()
	w := 0
	for _, s := range lines {
		w = max(w, len(s)*6+24)
	}
	overlay := ebiten.NewImage(w, len(lines)*14+8)
	overlay.Fill(color.RGBA{0, 0, 0, 0xc0})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(4, 4)
	screen.DrawImage(overlay, op)
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 8+i*14)
	}
}
