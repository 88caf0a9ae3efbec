package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// FPS and memory text is refreshed every updateInterval frames.
	updateInterval = 30
)

// Stats is what the overlay reports about the scene.
type Stats struct {
	Symbols   int
	Hovered   string
	Navigator string
}

// Debug draws the top-right overlay. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	frameCount  uint32
	lastFpsText string
	lastMemText string
	memStats    runtime.MemStats
}

// New returns a Debug with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// Lines returns the overlay text for this frame. FPS and memory text are
// recomputed only every updateInterval frames.
func (d *Debug) Lines(stats Stats, fps int32) []string {
	d.frameCount++
	refresh := d.frameCount%updateInterval == 0
	var out []string
	if d.ShowFPS {
		if refresh || d.lastFpsText == "" {
			d.lastFpsText = fmt.Sprintf("FPS: %d", fps)
		}
		out = append(out, d.lastFpsText)
	}
	if d.ShowMemAlloc {
		if refresh || d.lastMemText == "" {
			runtime.ReadMemStats(&d.memStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		out = append(out, d.lastMemText)
	}
	if d.ShowStats {
		out = append(out, fmt.Sprintf("Symbols: %d", stats.Symbols))
		if stats.Navigator != "" {
			out = append(out, "Camera: "+stats.Navigator)
		}
		if stats.Hovered != "" {
			out = append(out, stats.Hovered)
		}
	}
	return out
}

// Draw renders the enabled overlays right-aligned at the top of the window.
func (d *Debug) Draw(stats Stats) {
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range d.Lines(stats, rl.GetFPS()) {
		x := screenW - rl.MeasureText(text, fontSize) - padding
		rl.DrawText(text, x, y, fontSize, rl.Green)
		y += lineHeight
	}
}
