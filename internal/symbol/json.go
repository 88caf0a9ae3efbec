package symbol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Parse for payloads that are not a symbol tree.
var ErrMalformed = errors.New("malformed symbol tree")

// Parse decodes a serialized tree. An empty or whitespace-only payload means
// "no tree" and returns (nil, nil); anything else that does not decode returns
// an error wrapping ErrMalformed.
func Parse(text string) (*Symbol, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var s Symbol
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s.normalize()
	return &s, nil
}

// Marshal encodes the tree in the host's wire schema.
func Marshal(s *Symbol) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// normalize replaces nil child slices so re-serialized trees always carry "children":[].
func (s *Symbol) normalize() {
	if s.Children == nil {
		s.Children = []*Symbol{}
	}
	kept := s.Children[:0]
	for _, c := range s.Children {
		if c == nil {
			continue
		}
		c.normalize()
		kept = append(kept, c)
	}
	s.Children = kept
}
