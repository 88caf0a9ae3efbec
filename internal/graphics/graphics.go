package graphics

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options sets up the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int
	Background rl.Color
	// OnClose runs after the last frame while the GL context still exists.
	OnClose func()
}

// Run opens the window and drives the frame loop until the window is closed or ctx
// is done. Each frame it calls update with the frame time, then clears the screen
// and calls draw between BeginDrawing and EndDrawing. It must be called from the
// main goroutine.
func Run(ctx context.Context, opts Options, update func(dt time.Duration), draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	if opts.Fullscreen {
		fullscreen(raylibDisplay{})
	}
	if opts.OnClose != nil {
		defer opts.OnClose()
	}

	// close via the window button only
	rl.SetExitKey(rl.KeyNull)
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}
		update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(opts.Background)
		draw()
		rl.EndDrawing()
	}
}

// display is the part of the window system fullscreen needs.
type display interface {
	GetCurrentMonitor() int
	GetMonitorWidth(monitor int) int
	GetMonitorHeight(monitor int) int
	SetWindowSize(width, height int)
	IsWindowFullscreen() bool
	ToggleFullscreen()
}

// fullscreen sizes the open window to its monitor and switches it to fullscreen.
// Monitor sizes read as zero until the window exists.
func fullscreen(d display) {
	m := d.GetCurrentMonitor()
	if w, h := d.GetMonitorWidth(m), d.GetMonitorHeight(m); w > 0 && h > 0 {
		d.SetWindowSize(w, h)
	}
	if !d.IsWindowFullscreen() {
		d.ToggleFullscreen()
	}
}

type raylibDisplay struct{}

func (raylibDisplay) GetCurrentMonitor() int           { return rl.GetCurrentMonitor() }
func (raylibDisplay) GetMonitorWidth(monitor int) int  { return rl.GetMonitorWidth(monitor) }
func (raylibDisplay) GetMonitorHeight(monitor int) int { return rl.GetMonitorHeight(monitor) }
func (raylibDisplay) SetWindowSize(width, height int)  { rl.SetWindowSize(width, height) }
func (raylibDisplay) IsWindowFullscreen() bool         { return rl.IsWindowFullscreen() }
func (raylibDisplay) ToggleFullscreen()                { rl.ToggleFullscreen() }
