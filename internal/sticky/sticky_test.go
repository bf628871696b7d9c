package sticky

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dddelispt42/hwm/internal/state"
)

func worldFixture(activeTag string, clients ...state.Client) *state.World {
	return &state.World{
		Clients:   clients,
		Tags:      []state.Tag{{Name: "1"}, {Name: "2"}},
		ActiveTag: activeTag,
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	s := NewSet()
	s.Toggle("0xa")
	before := s.IDs()

	if !s.Toggle("0xb") {
		t.Fatalf("expected first toggle to pin")
	}
	if s.Toggle("0xb") {
		t.Fatalf("expected second toggle to unpin")
	}
	if diff := cmp.Diff(before, s.IDs()); diff != "" {
		t.Fatalf("expected set restored (-want +got):\n%s", diff)
	}
}

func TestReconcileMovesOffTagClients(t *testing.T) {
	s := NewSet()
	s.Toggle("0xa")
	w := worldFixture("2", state.Client{ID: "0xa", Tag: "1"})

	plan, moved := s.Reconcile(w)
	if !moved {
		t.Fatalf("expected a move to be reported")
	}
	want := [][]string{{"movetotag", "id:0xa", "2"}}
	if diff := cmp.Diff(want, plan.Commands); diff != "" {
		t.Fatalf("unexpected plan (-want +got):\n%s", diff)
	}

	// After the move is applied, reconcile is idempotent.
	if _, err := w.MoveClient("0xa", "2"); err != nil {
		t.Fatalf("move client: %v", err)
	}
	plan, moved = s.Reconcile(w)
	if moved || len(plan.Commands) != 0 {
		t.Fatalf("expected idempotent reconcile, moved=%v plan=%v", moved, plan.Commands)
	}
}

func TestReconcileNoOpWhenNothingOffTag(t *testing.T) {
	s := NewSet()
	s.Toggle("0xa")
	w := worldFixture("1", state.Client{ID: "0xa", Tag: "1"})
	plan, moved := s.Reconcile(w)
	if moved || len(plan.Commands) != 0 {
		t.Fatalf("expected no-op, moved=%v plan=%v", moved, plan.Commands)
	}
}

func TestReconcilePrunesClosedClientsLazily(t *testing.T) {
	s := NewSet()
	s.Toggle("0xgone")
	s.Toggle("0xa")

	// Closing a client does not touch the set; pruning happens on the next
	// reconcile pass.
	if s.Len() != 2 {
		t.Fatalf("expected both pins before reconcile, got %d", s.Len())
	}
	w := worldFixture("1", state.Client{ID: "0xa", Tag: "1"})
	_, moved := s.Reconcile(w)
	if moved {
		t.Fatalf("pruning must not count as a move")
	}
	if s.Contains("0xgone") {
		t.Fatalf("expected stale pin pruned")
	}
	if !s.Contains("0xa") {
		t.Fatalf("expected live pin retained")
	}
}

func TestReconcileMovesMultipleClients(t *testing.T) {
	s := NewSet()
	s.Toggle("0xb")
	s.Toggle("0xa")
	w := worldFixture("2",
		state.Client{ID: "0xa", Tag: "1"},
		state.Client{ID: "0xb", Tag: "1"},
	)
	plan, moved := s.Reconcile(w)
	if !moved {
		t.Fatalf("expected moves")
	}
	want := [][]string{
		{"movetotag", "id:0xa", "2"},
		{"movetotag", "id:0xb", "2"},
	}
	if diff := cmp.Diff(want, plan.Commands); diff != "" {
		t.Fatalf("unexpected plan (-want +got):\n%s", diff)
	}
}
