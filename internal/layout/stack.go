package layout

import "fmt"

// Stack is an ordered collection of named layouts with a current selection,
// consumed by the runtime's layout-cycling commands.
type Stack struct {
	layouts []Layout
	index   int
}

// NewStack builds a stack from the provided layouts. At least one layout is
// required and names must be unique.
func NewStack(layouts ...Layout) (*Stack, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("layout stack requires at least one layout")
	}
	seen := map[string]struct{}{}
	for _, l := range layouts {
		if _, exists := seen[l.Name()]; exists {
			return nil, fmt.Errorf("duplicate layout name %q", l.Name())
		}
		seen[l.Name()] = struct{}{}
	}
	return &Stack{layouts: append([]Layout(nil), layouts...)}, nil
}

// Current returns the selected layout.
func (s *Stack) Current() Layout {
	return s.layouts[s.index]
}

// Next advances the selection, wrapping around, and returns the new layout.
func (s *Stack) Next() Layout {
	s.index = (s.index + 1) % len(s.layouts)
	return s.Current()
}

// Prev moves the selection backwards, wrapping around, and returns the new layout.
func (s *Stack) Prev() Layout {
	s.index = (s.index - 1 + len(s.layouts)) % len(s.layouts)
	return s.Current()
}

// SetByName selects the layout with the given name.
func (s *Stack) SetByName(name string) error {
	for i, l := range s.layouts {
		if l.Name() == name {
			s.index = i
			return nil
		}
	}
	return fmt.Errorf("unknown layout %q", name)
}

// Names returns the layout names in order.
func (s *Stack) Names() []string {
	names := make([]string, 0, len(s.layouts))
	for _, l := range s.layouts {
		names = append(names, l.Name())
	}
	return names
}

// HandleMessage forwards the message to the current layout.
func (s *Stack) HandleMessage(msg Message) bool {
	return s.Current().HandleMessage(msg)
}
