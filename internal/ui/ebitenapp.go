package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/config"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/demo"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/inspect"
)

// App shows the demo scene and the memory inspector in a window.
type App struct {
	cfg   *config.Config
	mem   *hw.Memory
	scene *demo.Scene
	views inspect.Views

	sheet *image.RGBA
	tex   *ebiten.Image

	paused bool
	fast   bool

	showMenu bool
	menuIdx  int

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg *config.Config, mem *hw.Memory, scene *demo.Scene) *App {
	a := &App{
		cfg:   cfg,
		mem:   mem,
		scene: scene,
		views: inspect.Views{
			Tiles:        cfg.Inspector.Tiles,
			Palettes:     cfg.Inspector.Palettes,
			Screenblocks: cfg.Inspector.Screenblocks,
			Preview:      cfg.Inspector.Preview,
		},
	}
	ebiten.SetWindowTitle(cfg.Title)
	a.render()
	a.resize()
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

// render redraws the inspector sheet from display memory.
func (a *App) render() {
	a.sheet = inspect.Sheet(a.mem, a.views)
	if a.tex != nil && a.tex.Bounds() != a.sheet.Bounds() {
		a.tex.Deallocate()
		a.tex = nil
	}
}

func (a *App) resize() {
	b := a.sheet.Bounds()
	ebiten.SetWindowSize(b.Dx()*a.cfg.Scale, b.Dy()*a.cfg.Scale)
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
	}
	if a.showMenu {
		a.updateMenu()
		return nil
	}

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, step several frames per update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.scene.Step()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}

	if !a.paused {
		n := 1
		if a.fast {
			n = 5
		}
		for i := 0; i < n; i++ {
			a.scene.Step()
		}
	}
	a.render()
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(a.sheet.Bounds().Dx(), a.sheet.Bounds().Dy())
	}
	a.tex.WritePixels(a.sheet.Pix)
	screen.DrawImage(a.tex, nil)

	st := a.scene.Stats()
	status := fmt.Sprintf("frame %d  cam %v  objs %d  tiles %d  pals %d",
		a.scene.Ticks(), a.scene.Camera(), st.Actors, st.TileSlots, st.Palettes)
	if a.paused {
		status += "  [paused]"
	}
	h := a.sheet.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, status, 4, h-16)

	if a.showMenu {
		a.drawMenu(screen)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.toastMsg, 4, h-32)
	}
}

func (a *App) Layout(outW, outH int) (int, int) {
	b := a.sheet.Bounds()
	return b.Dx(), b.Dy()
}

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.sheet)
}
