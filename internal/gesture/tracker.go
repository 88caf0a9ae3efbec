package gesture

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"symbol-world/internal/input"
)

// MaxPointers is how many simultaneous pointers the tracker registers. Gestures only
// use one or two; extra contacts are tracked but ignored by classification.
const MaxPointers = 10

var (
	// ErrNeedTwoPointers is returned by two-pointer queries when Count() != 2.
	ErrNeedTwoPointers = errors.New("gesture needs exactly two active pointers")
	// ErrUnknownPointer is returned by Other when the event is not one of the active pointers.
	ErrUnknownPointer = errors.New("pointer is not active")
)

type pointer struct {
	id  int
	pos rl.Vector2 // page position when registered
}

// Tracker holds the active pointers in registration order and the last page
// position seen for every pointer id.
type Tracker struct {
	active    []pointer
	positions map[int]rl.Vector2
	order     []int // ids in first-track order
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{positions: make(map[int]rl.Vector2)}
}

// Add registers ev as an active pointer. Already-active ids and pointers beyond
// MaxPointers are ignored.
func (t *Tracker) Add(ev input.PointerEvent) {
	if len(t.active) >= MaxPointers || t.indexOf(ev.ID) >= 0 {
		return
	}
	t.active = append(t.active, pointer{id: ev.ID, pos: rl.NewVector2(ev.PageX, ev.PageY)})
}

// Remove drops the pointer with ev's id and forgets its tracked position.
func (t *Tracker) Remove(ev input.PointerEvent) {
	if _, ok := t.positions[ev.ID]; ok {
		delete(t.positions, ev.ID)
		for i, id := range t.order {
			if id == ev.ID {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	if i := t.indexOf(ev.ID); i >= 0 {
		t.active = append(t.active[:i], t.active[i+1:]...)
	}
}

// Track records ev's page position for its id.
func (t *Tracker) Track(ev input.PointerEvent) {
	if _, ok := t.positions[ev.ID]; !ok {
		t.order = append(t.order, ev.ID)
	}
	t.positions[ev.ID] = rl.NewVector2(ev.PageX, ev.PageY)
}

// Count returns the number of active pointers.
func (t *Tracker) Count() int {
	return len(t.active)
}

// Position returns the page position of the pointer at ordinal index. Ordinals cover
// active pointers in registration order, then pointers that were only tracked.
func (t *Tracker) Position(index int) (rl.Vector2, error) {
	if index < 0 {
		return rl.Vector2{}, fmt.Errorf("pointer index %d out of range", index)
	}
	if index < len(t.active) {
		return t.current(t.active[index]), nil
	}
	rest := index - len(t.active)
	for _, id := range t.order {
		if t.indexOf(id) >= 0 {
			continue
		}
		if rest == 0 {
			return t.positions[id], nil
		}
		rest--
	}
	return rl.Vector2{}, fmt.Errorf("pointer index %d out of range", index)
}

// Midpoint returns the point halfway between the two active pointers.
func (t *Tracker) Midpoint() (rl.Vector2, error) {
	if len(t.active) != 2 {
		return rl.Vector2{}, fmt.Errorf("midpoint: %w (have %d)", ErrNeedTwoPointers, len(t.active))
	}
	sum := rl.Vector2Add(t.current(t.active[0]), t.current(t.active[1]))
	return rl.Vector2Scale(sum, 0.5), nil
}

// Separation returns first minus second pointer position, in registration order.
func (t *Tracker) Separation() (rl.Vector2, error) {
	if len(t.active) != 2 {
		return rl.Vector2{}, fmt.Errorf("separation: %w (have %d)", ErrNeedTwoPointers, len(t.active))
	}
	return rl.Vector2Subtract(t.current(t.active[0]), t.current(t.active[1])), nil
}

// Distance is the length of Separation.
func (t *Tracker) Distance() (float32, error) {
	d, err := t.Separation()
	if err != nil {
		return 0, err
	}
	return rl.Vector2Length(d), nil
}

// Other returns the tracked position of the active pointer that is not ev.
func (t *Tracker) Other(ev input.PointerEvent) (rl.Vector2, error) {
	if len(t.active) != 2 {
		return rl.Vector2{}, fmt.Errorf("other pointer: %w (have %d)", ErrNeedTwoPointers, len(t.active))
	}
	switch ev.ID {
	case t.active[0].id:
		return t.current(t.active[1]), nil
	case t.active[1].id:
		return t.current(t.active[0]), nil
	}
	return rl.Vector2{}, fmt.Errorf("other pointer %d: %w", ev.ID, ErrUnknownPointer)
}

// Active reports whether id is a registered pointer.
func (t *Tracker) Active(id int) bool {
	return t.indexOf(id) >= 0
}

// IDs returns the active pointer ids in registration order.
func (t *Tracker) IDs() []int {
	ids := make([]int, len(t.active))
	for i, p := range t.active {
		ids[i] = p.id
	}
	return ids
}

// Reset forgets every pointer.
func (t *Tracker) Reset() {
	t.active = t.active[:0]
	t.order = t.order[:0]
	clear(t.positions)
}

func (t *Tracker) indexOf(id int) int {
	for i, p := range t.active {
		if p.id == id {
			return i
		}
	}
	return -1
}

// current prefers the last tracked position over the one captured at registration.
func (t *Tracker) current(p pointer) rl.Vector2 {
	if pos, ok := t.positions[p.id]; ok {
		return pos
	}
	return p.pos
}
