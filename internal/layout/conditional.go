package layout

import "fmt"

// Predicate decides which alternative a conditional layout uses for a region.
type Predicate func(region Rect) bool

// WidthAtMost selects the primary alternative while the region width does not
// exceed threshold. The boundary itself resolves to the primary.
func WidthAtMost(threshold float64) Predicate {
	return func(region Rect) bool { return region.Width <= threshold }
}

// Conditional exposes two interchangeable layouts behind a single name. The
// alternative is selected per Arrange call from the live region, so screen
// resizes take effect without explicit invalidation.
type Conditional struct {
	name      string
	primary   Layout
	secondary Layout
	pred      Predicate

	// routesPrimary tracks only where messages go; geometry selection is
	// recomputed on every Arrange.
	routesPrimary bool
}

// NewConditional wraps primary and secondary behind name. The predicate must
// not be nil.
func NewConditional(name string, primary, secondary Layout, pred Predicate) (*Conditional, error) {
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("conditional %q requires both alternatives", name)
	}
	if pred == nil {
		return nil, fmt.Errorf("conditional %q requires a predicate", name)
	}
	return &Conditional{
		name:          name,
		primary:       primary,
		secondary:     secondary,
		pred:          pred,
		routesPrimary: true,
	}, nil
}

func (c *Conditional) Name() string { return c.name }

func (c *Conditional) Arrange(clients []string, region Rect) []Placement {
	usePrimary := c.pred(region)
	c.routesPrimary = usePrimary
	if usePrimary {
		return c.primary.Arrange(clients, region)
	}
	return c.secondary.Arrange(clients, region)
}

// HandleMessage forwards the message unchanged to the currently selected
// alternative. Before the first Arrange the primary receives messages.
func (c *Conditional) HandleMessage(msg Message) bool {
	if c.routesPrimary {
		return c.primary.HandleMessage(msg)
	}
	return c.secondary.HandleMessage(msg)
}
