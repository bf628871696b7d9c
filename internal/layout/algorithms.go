package layout

const (
	ratioStep = 0.05
	ratioMin  = 0.05
	ratioMax  = 0.95
)

// mainStack carries the adjustable parameters shared by the stack layouts.
type mainStack struct {
	name  string
	nMain int
	ratio float64
}

func (l *mainStack) Name() string { return l.name }

func (l *mainStack) HandleMessage(msg Message) bool {
	switch msg {
	case MsgIncMain:
		l.nMain++
	case MsgDecMain:
		if l.nMain > 0 {
			l.nMain--
		}
	case MsgExpandMain:
		l.ratio += ratioStep
		if l.ratio > ratioMax {
			l.ratio = ratioMax
		}
	case MsgShrinkMain:
		l.ratio -= ratioStep
		if l.ratio < ratioMin {
			l.ratio = ratioMin
		}
	default:
		return false
	}
	return true
}

// SideStack places up to nMain clients in a left main column of ratio width
// and stacks the remaining clients in the right column.
type SideStack struct {
	mainStack
}

// NewSideStack creates a side stack layout.
func NewSideStack(name string, nMain int, ratio float64) *SideStack {
	return &SideStack{mainStack{name: name, nMain: nMain, ratio: ratio}}
}

func (l *SideStack) Arrange(clients []string, region Rect) []Placement {
	n := len(clients)
	if n == 0 {
		return nil
	}
	if l.nMain == 0 || n <= l.nMain {
		return stackRows(clients, region)
	}
	main := region
	main.Width = region.Width * l.ratio
	rest := region
	rest.X = main.X + main.Width
	rest.Width = region.Width - main.Width
	out := stackRows(clients[:l.nMain], main)
	return append(out, stackRows(clients[l.nMain:], rest)...)
}

// BottomStack places up to nMain clients in a top main row of ratio height
// and arranges the remaining clients in columns along the bottom.
type BottomStack struct {
	mainStack
}

// NewBottomStack creates a bottom stack layout.
func NewBottomStack(name string, nMain int, ratio float64) *BottomStack {
	return &BottomStack{mainStack{name: name, nMain: nMain, ratio: ratio}}
}

func (l *BottomStack) Arrange(clients []string, region Rect) []Placement {
	n := len(clients)
	if n == 0 {
		return nil
	}
	if l.nMain == 0 || n <= l.nMain {
		return stackColumns(clients, region)
	}
	main := region
	main.Height = region.Height * l.ratio
	rest := region
	rest.Y = main.Y + main.Height
	rest.Height = region.Height - main.Height
	out := stackColumns(clients[:l.nMain], main)
	return append(out, stackColumns(clients[l.nMain:], rest)...)
}

// Monocle gives every client the full region; only the top of the stacking
// order is visible. It consumes no messages.
type Monocle struct {
	name string
}

// NewMonocle creates a monocle layout.
func NewMonocle(name string) *Monocle {
	return &Monocle{name: name}
}

func (l *Monocle) Name() string { return l.name }

func (l *Monocle) HandleMessage(Message) bool { return false }

func (l *Monocle) Arrange(clients []string, region Rect) []Placement {
	out := make([]Placement, 0, len(clients))
	for _, c := range clients {
		out = append(out, Placement{Client: c, Rect: region})
	}
	return out
}

func stackRows(clients []string, region Rect) []Placement {
	n := len(clients)
	if n == 0 {
		return nil
	}
	h := region.Height / float64(n)
	out := make([]Placement, 0, n)
	for i, c := range clients {
		out = append(out, Placement{Client: c, Rect: Rect{
			X:      region.X,
			Y:      region.Y + float64(i)*h,
			Width:  region.Width,
			Height: h,
		}})
	}
	return out
}

func stackColumns(clients []string, region Rect) []Placement {
	n := len(clients)
	if n == 0 {
		return nil
	}
	w := region.Width / float64(n)
	out := make([]Placement, 0, n)
	for i, c := range clients {
		out = append(out, Placement{Client: c, Rect: Rect{
			X:      region.X + float64(i)*w,
			Y:      region.Y,
			Width:  w,
			Height: region.Height,
		}})
	}
	return out
}
