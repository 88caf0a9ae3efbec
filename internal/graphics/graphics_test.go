package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDisplay struct {
	monitors   map[int][2]int
	current    int
	size       [2]int
	fullscreen bool
	toggles    int
}

func (d *fakeDisplay) GetCurrentMonitor() int           { return d.current }
func (d *fakeDisplay) GetMonitorWidth(monitor int) int  { return d.monitors[monitor][0] }
func (d *fakeDisplay) GetMonitorHeight(monitor int) int { return d.monitors[monitor][1] }
func (d *fakeDisplay) SetWindowSize(width, height int)  { d.size = [2]int{width, height} }
func (d *fakeDisplay) IsWindowFullscreen() bool         { return d.fullscreen }
func (d *fakeDisplay) ToggleFullscreen() {
	d.fullscreen = !d.fullscreen
	d.toggles++
}

func TestFullscreenUsesCurrentMonitor(t *testing.T) {
	d := &fakeDisplay{
		monitors: map[int][2]int{0: {1920, 1080}, 1: {2560, 1440}},
		current:  1,
		size:     [2]int{1280, 720},
	}
	fullscreen(d)
	assert.Equal(t, [2]int{2560, 1440}, d.size)
	assert.True(t, d.fullscreen)

	fullscreen(d)
	assert.Equal(t, 1, d.toggles, "already fullscreen")
}

func TestFullscreenKeepsSizeWithoutMonitor(t *testing.T) {
	d := &fakeDisplay{size: [2]int{1280, 720}}
	fullscreen(d)
	assert.Equal(t, [2]int{1280, 720}, d.size)
	assert.True(t, d.fullscreen)
}
