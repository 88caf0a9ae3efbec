package layout

import (
	"fmt"

	"github.com/chewxy/math32"
)

// SizeFunc maps a symbol's line count (at least 1) to the edge length of its cube.
type SizeFunc func(lines int) float32

// LinearSize gives one unit per ten lines, never less than minSize.
func LinearSize(minSize float32) SizeFunc {
	return func(lines int) float32 {
		return max(float32(lines)/10, minSize)
	}
}

// CubeRootSize grows with the cube root of the line count so volume tracks lines.
// It is never less than minSize.
func CubeRootSize(minSize float32) SizeFunc {
	return func(lines int) float32 {
		return max(2*math32.Cbrt(float32(lines)), minSize)
	}
}

// SizeByName returns the named strategy: "linear" (also the empty name) or "cuberoot".
func SizeByName(name string, minSize float32) (SizeFunc, error) {
	switch name {
	case "", "linear":
		return LinearSize(minSize), nil
	case "cuberoot":
		return CubeRootSize(minSize), nil
	}
	return nil, fmt.Errorf("unknown size strategy %q", name)
}
