package layout

import "math"

// Rect represents a window or screen geometry in logical pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Gaps represents outer and inner gaps applied during layout calculations.
type Gaps struct {
	Inner float64
	Outer float64
}

// Insets describes reserved space on each edge of a region.
type Insets struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// ShrinkRect returns the rectangle remaining after removing the insets.
// Dimensions are clamped at zero.
func (in Insets) ShrinkRect(r Rect) Rect {
	r.X += in.Left
	r.Y += in.Top
	r.Width -= in.Left + in.Right
	r.Height -= in.Top + in.Bottom
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// CenteredFraction returns a rectangle covering widthRatio x heightRatio of
// the region, centered within it.
func CenteredFraction(region Rect, widthRatio, heightRatio float64) Rect {
	w := region.Width * widthRatio
	h := region.Height * heightRatio
	return Rect{
		X:      region.X + (region.Width-w)/2,
		Y:      region.Y + (region.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// ApproximatelyEqual reports whether two rects are almost equal.
func ApproximatelyEqual(a, b Rect, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Width-b.Width) <= tolerance && math.Abs(a.Height-b.Height) <= tolerance
}
