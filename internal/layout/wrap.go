package layout

// ReserveTop excludes a strip of px pixels at the top of the region before
// delegating to the wrapped layout. Reserve wrapping must sit outside margin
// wrapping so margins are computed on the remainder, not the reserved strip.
func ReserveTop(inner Layout, px float64) Layout {
	return &reserveTop{inner: inner, px: px}
}

type reserveTop struct {
	inner Layout
	px    float64
}

func (w *reserveTop) Name() string { return w.inner.Name() }

func (w *reserveTop) HandleMessage(msg Message) bool { return w.inner.HandleMessage(msg) }

func (w *reserveTop) Arrange(clients []string, region Rect) []Placement {
	shrunk := Insets{Top: w.px}.ShrinkRect(region)
	return w.inner.Arrange(clients, shrunk)
}

// Margins applies outer gaps to the region and shrinks each resulting
// placement by the inner gap.
func Margins(inner Layout, gaps Gaps) Layout {
	return &margins{inner: inner, gaps: gaps}
}

type margins struct {
	inner Layout
	gaps  Gaps
}

func (w *margins) Name() string { return w.inner.Name() }

func (w *margins) HandleMessage(msg Message) bool { return w.inner.HandleMessage(msg) }

func (w *margins) Arrange(clients []string, region Rect) []Placement {
	usable := Insets{
		Top:    w.gaps.Outer,
		Bottom: w.gaps.Outer,
		Left:   w.gaps.Outer,
		Right:  w.gaps.Outer,
	}.ShrinkRect(region)
	placements := w.inner.Arrange(clients, usable)
	if w.gaps.Inner == 0 {
		return placements
	}
	pad := Insets{
		Top:    w.gaps.Inner,
		Bottom: w.gaps.Inner,
		Left:   w.gaps.Inner,
		Right:  w.gaps.Inner,
	}
	for i := range placements {
		placements[i].Rect = pad.ShrinkRect(placements[i].Rect)
	}
	return placements
}

// Reflect mirrors the wrapped layout's output across the vertical axis of the
// region. Slot assignment is untouched: each client keeps its logical
// position and only its screen rectangle moves.
func Reflect(inner Layout) Layout {
	return &reflected{inner: inner}
}

type reflected struct {
	inner Layout
}

func (w *reflected) Name() string { return w.inner.Name() }

func (w *reflected) HandleMessage(msg Message) bool { return w.inner.HandleMessage(msg) }

func (w *reflected) Arrange(clients []string, region Rect) []Placement {
	placements := w.inner.Arrange(clients, region)
	for i := range placements {
		r := placements[i].Rect
		placements[i].Rect.X = 2*region.X + region.Width - r.X - r.Width
	}
	return placements
}
