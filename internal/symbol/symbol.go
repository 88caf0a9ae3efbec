package symbol

// Position is the last known layout location of a symbol's box.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Quaternion is the last known layout rotation of a symbol's box.
type Quaternion struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Symbol is one code construct (file, class, function, ...) with its source line range.
// Children are in declaration order and owned by their parent.
type Symbol struct {
	Kind       Kind        `json:"kind"`
	Name       string      `json:"name"`
	Filename   string      `json:"filename"`
	StartLine  int         `json:"startLine"`
	EndLine    int         `json:"endLine"`
	UpdateID   string      `json:"updateId"`
	Position   *Position   `json:"position,omitempty"`
	Quaternion *Quaternion `json:"quaternion,omitempty"`
	Children   []*Symbol   `json:"children"`
}

// New returns a symbol with no children and no stored transform.
func New(kind Kind, name, filename string, startLine, endLine int) *Symbol {
	return &Symbol{
		Kind:      kind,
		Name:      name,
		Filename:  filename,
		StartLine: startLine,
		EndLine:   endLine,
		Children:  []*Symbol{},
	}
}

// LineCount is EndLine - StartLine + 1. It can be below 1 for malformed ranges;
// callers that need a size clamp it themselves.
func (s *Symbol) LineCount() int {
	return s.EndLine - s.StartLine + 1
}

// AddChild appends child after the existing children.
func (s *Symbol) AddChild(child *Symbol) {
	s.Children = append(s.Children, child)
}

// SetPosition stores a layout location, allocating it on first use.
func (s *Symbol) SetPosition(x, y, z float32) {
	if s.Position == nil {
		s.Position = &Position{}
	}
	s.Position.X, s.Position.Y, s.Position.Z = x, y, z
}

// SetQuaternion stores a layout rotation, allocating it on first use.
func (s *Symbol) SetQuaternion(x, y, z, w float32) {
	if s.Quaternion == nil {
		s.Quaternion = &Quaternion{}
	}
	s.Quaternion.X, s.Quaternion.Y, s.Quaternion.Z, s.Quaternion.W = x, y, z, w
}

// Walk visits s and its subtree depth-first, parents before children.
// Returning false from fn skips that symbol's children.
func (s *Symbol) Walk(fn func(sym *Symbol, depth int) bool) {
	s.walk(fn, 0)
}

func (s *Symbol) walk(fn func(*Symbol, int) bool, depth int) {
	if !fn(s, depth) {
		return
	}
	for _, c := range s.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of symbols in the subtree including s.
func (s *Symbol) Count() int {
	n := 0
	s.Walk(func(*Symbol, int) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the subtree.
func (s *Symbol) Clone() *Symbol {
	out := *s
	if s.Position != nil {
		p := *s.Position
		out.Position = &p
	}
	if s.Quaternion != nil {
		q := *s.Quaternion
		out.Quaternion = &q
	}
	out.Children = make([]*Symbol, len(s.Children))
	for i, c := range s.Children {
		out.Children[i] = c.Clone()
	}
	return &out
}

// CarryForward copies stored positions and rotations from prev onto s wherever s has none.
// Symbols are matched by child index at each depth, not by name: a tree re-extracted
// from an edited document keeps the layout of whatever now sits in the same slot.
func (s *Symbol) CarryForward(prev *Symbol) {
	if prev == nil {
		return
	}
	if s.Position == nil && prev.Position != nil {
		p := *prev.Position
		s.Position = &p
	}
	if s.Quaternion == nil && prev.Quaternion != nil {
		q := *prev.Quaternion
		s.Quaternion = &q
	}
	for i, c := range s.Children {
		if i >= len(prev.Children) {
			break
		}
		c.CarryForward(prev.Children[i])
	}
}
