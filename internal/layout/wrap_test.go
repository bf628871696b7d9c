package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReserveTopExcludesStrip(t *testing.T) {
	l := ReserveTop(NewMonocle("[mono]"), 31)
	got := l.Arrange([]string{"a"}, Rect{Width: 1000, Height: 831})
	want := []Placement{{Client: "a", Rect: Rect{X: 0, Y: 31, Width: 1000, Height: 800}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected placements (-want +got):\n%s", diff)
	}
}

func TestReserveBeforeMarginsOrdering(t *testing.T) {
	// Margins must be computed on the remainder after the reserved strip,
	// never on the strip itself.
	l := ReserveTop(Margins(NewMonocle("[mono]"), Gaps{Outer: 10}), 30)
	got := l.Arrange([]string{"a"}, Rect{Width: 1000, Height: 1030})
	want := []Placement{{Client: "a", Rect: Rect{X: 10, Y: 40, Width: 980, Height: 980}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected placements (-want +got):\n%s", diff)
	}
}

func TestMarginsInnerGapShrinksPlacements(t *testing.T) {
	l := Margins(NewSideStack("[side]", 1, 0.5), Gaps{Inner: 5})
	got := l.Arrange([]string{"a", "b"}, Rect{Width: 1000, Height: 800})
	for _, p := range got {
		if p.Rect.Width != 490 || p.Rect.Height != 790 {
			t.Fatalf("expected inner gap applied to %s, got %+v", p.Client, p.Rect)
		}
	}
}

func TestReflectMirrorsWithoutReassigningSlots(t *testing.T) {
	base := NewSideStack("[side]", 1, 0.6)
	mirrored := Reflect(NewSideStack("[side]", 1, 0.6))
	region := Rect{X: 100, Y: 0, Width: 1000, Height: 800}
	clients := []string{"a", "b", "c"}
	plain := base.Arrange(clients, region)
	got := mirrored.Arrange(clients, region)
	for i := range got {
		if got[i].Client != plain[i].Client {
			t.Fatalf("reflect reassigned slot %d: %s vs %s", i, got[i].Client, plain[i].Client)
		}
	}
	// Main column jumps to the right edge; sizes are untouched.
	if got[0].Rect.X != 500 || got[0].Rect.Width != 600 {
		t.Fatalf("expected mirrored main at x=500 w=600, got %+v", got[0].Rect)
	}
	if got[1].Rect.X != 100 {
		t.Fatalf("expected mirrored stack at x=100, got %+v", got[1].Rect)
	}
}

func TestWrappersForwardMessages(t *testing.T) {
	inner := &recordingLayout{name: "inner"}
	l := ReserveTop(Margins(Reflect(inner), Gaps{}), 10)
	if !l.HandleMessage(MsgShrinkMain) {
		t.Fatalf("expected message to reach inner layout")
	}
	if len(inner.messages) != 1 {
		t.Fatalf("expected one forwarded message, got %d", len(inner.messages))
	}
	if l.Name() != "inner" {
		t.Fatalf("expected wrappers to expose inner name, got %q", l.Name())
	}
}
