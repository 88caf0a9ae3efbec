package camera

import (
	"github.com/chewxy/math32"
)

// Action is what a mouse button does while held.
type Action string

const (
	ActionNone   Action = ""
	ActionRotate Action = "rotate"
	ActionDolly  Action = "dolly"
	ActionPan    Action = "pan"
)

// TouchAction is what a one- or two-finger gesture does.
type TouchAction string

const (
	TouchNone        TouchAction = ""
	TouchRotate      TouchAction = "rotate"
	TouchPan         TouchAction = "pan"
	TouchDollyPan    TouchAction = "dolly-pan"
	TouchDollyRotate TouchAction = "dolly-rotate"
)

// MouseButtons maps mouse buttons to actions.
type MouseButtons struct {
	Left   Action `yaml:"left"`
	Middle Action `yaml:"middle"`
	Right  Action `yaml:"right"`
}

// Touches maps finger counts to gestures.
type Touches struct {
	One TouchAction `yaml:"one"`
	Two TouchAction `yaml:"two"`
}

// Options configures a navigator. The zero value is not useful; start from DefaultOptions.
type Options struct {
	Enabled bool `yaml:"enabled"`

	// How far you can dolly in and out (perspective only).
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`

	// How far you can zoom in and out (orthographic only).
	MinZoom float32 `yaml:"min_zoom"`
	MaxZoom float32 `yaml:"max_zoom"`

	// Bounds on the target's distance from Cursor.
	MinTargetRadius float32 `yaml:"min_target_radius"`
	MaxTargetRadius float32 `yaml:"max_target_radius"`

	// Vertical orbit range in radians, 0 to Pi.
	MinPolarAngle float32 `yaml:"min_polar_angle"`
	MaxPolarAngle float32 `yaml:"max_polar_angle"`

	// Horizontal orbit range in radians. When both are finite the interval must
	// span less than 2*Pi.
	MinAzimuthAngle float32 `yaml:"min_azimuth_angle"`
	MaxAzimuthAngle float32 `yaml:"max_azimuth_angle"`

	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`

	EnableZoom bool    `yaml:"enable_zoom"`
	ZoomSpeed  float32 `yaml:"zoom_speed"`

	EnableRotate bool    `yaml:"enable_rotate"`
	RotateSpeed  float32 `yaml:"rotate_speed"`

	EnablePan          bool    `yaml:"enable_pan"`
	PanSpeed           float32 `yaml:"pan_speed"`
	ScreenSpacePanning bool    `yaml:"screen_space_panning"`
	KeyPanSpeed        float32 `yaml:"key_pan_speed"` // pixels per arrow key press

	ZoomToCursor bool `yaml:"zoom_to_cursor"`

	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float32 `yaml:"auto_rotate_speed"` // 2.0 is one orbit per 30 s at 60 fps

	// TiltLimit is the |up . view| threshold below which zoom-to-cursor leaves the
	// target alone instead of intersecting the view ray with the ground plane.
	TiltLimit float32 `yaml:"tilt_limit"`

	MouseButtons MouseButtons `yaml:"mouse_buttons"`
	Touches      Touches      `yaml:"touches"`

	// Walk-through movement per W/A/S/D/Q/E press and per wheel notch.
	WalkStep float32 `yaml:"walk_step"`
	// Walk-through range of the view direction's polar angle in radians. The
	// orbit bounds above do not apply to it.
	WalkMinPolarAngle float32 `yaml:"walk_min_polar_angle"`
	WalkMaxPolarAngle float32 `yaml:"walk_max_polar_angle"`
}

// DefaultOptions returns the stock orbit configuration.
func DefaultOptions() Options {
	return Options{
		Enabled:            true,
		MinDistance:        0,
		MaxDistance:        math32.Inf(1),
		MinZoom:            0,
		MaxZoom:            math32.Inf(1),
		MinTargetRadius:    0,
		MaxTargetRadius:    math32.Inf(1),
		MinPolarAngle:      0,
		MaxPolarAngle:      math32.Pi,
		MinAzimuthAngle:    math32.Inf(-1),
		MaxAzimuthAngle:    math32.Inf(1),
		EnableDamping:      false,
		DampingFactor:      0.05,
		EnableZoom:         true,
		ZoomSpeed:          1,
		EnableRotate:       true,
		RotateSpeed:        1,
		EnablePan:          true,
		PanSpeed:           1,
		ScreenSpacePanning: true,
		KeyPanSpeed:        7,
		ZoomToCursor:       false,
		AutoRotate:         false,
		AutoRotateSpeed:    2,
		TiltLimit:          math32.Cos(70 * math32.Pi / 180),
		MouseButtons:       MouseButtons{Left: ActionRotate, Middle: ActionDolly, Right: ActionPan},
		Touches:            Touches{One: TouchRotate, Two: TouchDollyPan},
		WalkStep:           1,
		WalkMinPolarAngle:  0,
		WalkMaxPolarAngle:  math32.Pi,
	}
}
