package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"symbol-world/internal/camera"
)

// ErrUnknownCommand is returned by Decode for a command no message type uses.
var ErrUnknownCommand = errors.New("unknown command")

// Message is one host/viewer exchange. The concrete types below are the only
// implementations; consumers switch on them.
type Message interface {
	Command() string
}

// Host to viewer.
type (
	// ShowSymbolTree carries a serialized symbol tree. An empty Value means no tree.
	ShowSymbolTree struct{ Value string }
	// RestoreCamera puts the camera at a saved pose.
	RestoreCamera struct{ Looking camera.Looking }
	// CenterCamera frames the whole layout.
	CenterCamera struct{}
	// Resize reports the view's new size in pixels.
	Resize struct{ Width, Height int }
)

// Viewer to host.
type (
	// SaveSymbol carries the serialized tree after a persistence tick.
	SaveSymbol struct{ Value string }
	// MoveCamera reports the camera pose after it changed.
	MoveCamera struct{ Looking camera.Looking }
	// ShowFileAtLine asks the host to open a file at a line.
	ShowFileAtLine struct {
		Filename   string
		LineNumber int
	}
	// DebugLog is a line for the host's log.
	DebugLog struct{ Message string }
)

func (ShowSymbolTree) Command() string { return "showSymbolTree" }
func (RestoreCamera) Command() string  { return "restoreCamera" }
func (CenterCamera) Command() string   { return "centerCamera" }
func (Resize) Command() string         { return "resize" }
func (SaveSymbol) Command() string     { return "saveSymbol" }
func (MoveCamera) Command() string     { return "moveCamera" }
func (ShowFileAtLine) Command() string { return "showFileAtLine" }
func (DebugLog) Command() string       { return "debug" }

// envelope is the wire form: a command name plus whichever fields that command uses.
type envelope struct {
	Command    string          `json:"command"`
	Value      json.RawMessage `json:"value,omitempty"`
	Filename   string          `json:"filename,omitempty"`
	LineNumber int             `json:"lineNumber,omitempty"`
	Message    string          `json:"message,omitempty"`
	Width      int             `json:"width,omitempty"`
	Height     int             `json:"height,omitempty"`
}

// Encode writes m in the webview message format, {"command": ..., ...}.
func Encode(m Message) ([]byte, error) {
	env := envelope{Command: m.Command()}
	var value any
	switch m := m.(type) {
	case ShowSymbolTree:
		value = m.Value
	case SaveSymbol:
		value = m.Value
	case RestoreCamera:
		value = m.Looking
	case MoveCamera:
		value = m.Looking
	case ShowFileAtLine:
		env.Filename, env.LineNumber = m.Filename, m.LineNumber
	case DebugLog:
		env.Message = m.Message
	case Resize:
		env.Width, env.Height = m.Width, m.Height
	case CenterCamera:
	default:
		return nil, fmt.Errorf("encode %T: %w", m, ErrUnknownCommand)
	}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", env.Command, err)
		}
		env.Value = raw
	}
	return json.Marshal(env)
}

// Decode parses one wire message.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch env.Command {
	case "showSymbolTree":
		s, err := decodeString(env)
		return ShowSymbolTree{Value: s}, err
	case "saveSymbol":
		s, err := decodeString(env)
		return SaveSymbol{Value: s}, err
	case "restoreCamera":
		l, err := decodeLooking(env)
		return RestoreCamera{Looking: l}, err
	case "moveCamera":
		l, err := decodeLooking(env)
		return MoveCamera{Looking: l}, err
	case "centerCamera":
		return CenterCamera{}, nil
	case "resize":
		return Resize{Width: env.Width, Height: env.Height}, nil
	case "showFileAtLine":
		return ShowFileAtLine{Filename: env.Filename, LineNumber: env.LineNumber}, nil
	case "debug":
		return DebugLog{Message: env.Message}, nil
	}
	return nil, fmt.Errorf("decode %q: %w", env.Command, ErrUnknownCommand)
}

func decodeString(env envelope) (string, error) {
	if len(env.Value) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(env.Value, &s); err != nil {
		return "", fmt.Errorf("decode %s value: %w", env.Command, err)
	}
	return s, nil
}

func decodeLooking(env envelope) (camera.Looking, error) {
	var l camera.Looking
	if len(env.Value) == 0 {
		return l, fmt.Errorf("decode %s: missing value", env.Command)
	}
	if err := json.Unmarshal(env.Value, &l); err != nil {
		return l, fmt.Errorf("decode %s value: %w", env.Command, err)
	}
	return l, nil
}
