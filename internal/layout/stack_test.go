package layout

import "testing"

func newTestStack(t *testing.T) *Stack {
	t.Helper()
	s, err := NewStack(
		NewSideStack("[side]", 1, 0.6),
		NewMonocle("[mono]"),
		NewBottomStack("[botm]", 1, 0.6),
	)
	if err != nil {
		t.Fatalf("new stack: %v", err)
	}
	return s
}

func TestStackCyclingWrapsAround(t *testing.T) {
	s := newTestStack(t)
	if s.Current().Name() != "[side]" {
		t.Fatalf("expected [side] first, got %q", s.Current().Name())
	}
	s.Next()
	s.Next()
	if got := s.Next().Name(); got != "[side]" {
		t.Fatalf("expected wrap to [side], got %q", got)
	}
	if got := s.Prev().Name(); got != "[botm]" {
		t.Fatalf("expected backwards wrap to [botm], got %q", got)
	}
}

func TestStackSetByName(t *testing.T) {
	s := newTestStack(t)
	if err := s.SetByName("[mono]"); err != nil {
		t.Fatalf("set by name: %v", err)
	}
	if s.Current().Name() != "[mono]" {
		t.Fatalf("expected [mono], got %q", s.Current().Name())
	}
	if err := s.SetByName("[nope]"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}

func TestStackRejectsDuplicatesAndEmpty(t *testing.T) {
	if _, err := NewStack(); err == nil {
		t.Fatalf("expected error for empty stack")
	}
	if _, err := NewStack(NewMonocle("[x]"), NewMonocle("[x]")); err == nil {
		t.Fatalf("expected error for duplicate names")
	}
}

func TestStackForwardsMessagesToCurrent(t *testing.T) {
	s := newTestStack(t)
	if err := s.SetByName("[mono]"); err != nil {
		t.Fatalf("set by name: %v", err)
	}
	if s.HandleMessage(MsgIncMain) {
		t.Fatalf("monocle should not consume incmain")
	}
	if err := s.SetByName("[side]"); err != nil {
		t.Fatalf("set by name: %v", err)
	}
	if !s.HandleMessage(MsgIncMain) {
		t.Fatalf("side stack should consume incmain")
	}
}
