package layout

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/symbol"
)

var (
	callableColor = rl.Magenta
	propertyColor = rl.White
	classColor    = rl.Orange
	variableColor = rl.NewColor(0, 255, 255, 255)
	otherColor    = rl.Gray
	anchorColor   = rl.NewColor(230, 41, 55, 128)
)

// ColorOf is the box color for a symbol kind.
func ColorOf(k symbol.Kind) rl.Color {
	switch k {
	case symbol.Function, symbol.Method:
		return callableColor
	case symbol.Property:
		return propertyColor
	case symbol.Class:
		return classColor
	case symbol.Variable:
		return variableColor
	}
	return otherColor
}
