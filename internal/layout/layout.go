package layout

import "fmt"

// Placement assigns one client to a screen rectangle.
type Placement struct {
	Client string
	Rect   Rect
}

// Message is a typed request delivered to the active layout.
type Message int

const (
	// MsgIncMain grows the number of clients in the main area.
	MsgIncMain Message = iota
	// MsgDecMain shrinks the number of clients in the main area.
	MsgDecMain
	// MsgExpandMain widens the main area ratio.
	MsgExpandMain
	// MsgShrinkMain narrows the main area ratio.
	MsgShrinkMain
)

var messageNames = map[string]Message{
	"incmain":    MsgIncMain,
	"decmain":    MsgDecMain,
	"expandmain": MsgExpandMain,
	"shrinkmain": MsgShrinkMain,
}

// ParseMessage converts a message name into its typed value.
func ParseMessage(s string) (Message, error) {
	if msg, ok := messageNames[s]; ok {
		return msg, nil
	}
	return 0, fmt.Errorf("unknown layout message %q", s)
}

func (m Message) String() string {
	switch m {
	case MsgIncMain:
		return "incmain"
	case MsgDecMain:
		return "decmain"
	case MsgExpandMain:
		return "expandmain"
	case MsgShrinkMain:
		return "shrinkmain"
	}
	return fmt.Sprintf("message(%d)", int(m))
}

// Layout arranges clients into positioned rectangles within a region.
// Arrange must be pure with respect to the region: no geometry is cached
// between calls.
type Layout interface {
	Name() string
	Arrange(clients []string, region Rect) []Placement
	// HandleMessage reports whether the layout consumed the message.
	HandleMessage(msg Message) bool
}
