package sticky

import (
	"sort"

	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/state"
)

// Set records the clients pinned to follow the active tag. It is empty at
// startup and never persisted.
type Set struct {
	members map[string]struct{}
}

// NewSet creates an empty sticky set.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Toggle flips membership for the client id and reports whether the client
// is pinned afterwards. Toggling twice restores the original set.
func (s *Set) Toggle(id string) bool {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
		return false
	}
	s.members[id] = struct{}{}
	return true
}

// Contains reports whether the client id is pinned.
func (s *Set) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of pinned clients.
func (s *Set) Len() int { return len(s.members) }

// IDs returns the pinned client ids in sorted order.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Reconcile re-homes every pinned client still present in the world whose
// tag differs from the active tag, returning the move plan and whether at
// least one move occurred. Pinned ids whose clients are gone are pruned here
// lazily rather than on destroy notifications, keeping the extension
// decoupled from destroy-event ordering. The caller must trigger a refresh
// only when a move occurred, and that refresh must not re-enter Reconcile.
func (s *Set) Reconcile(w *state.World) (layout.Plan, bool) {
	var plan layout.Plan
	moved := false
	for _, id := range s.IDs() {
		c := w.FindClient(id)
		if c == nil {
			delete(s.members, id)
			continue
		}
		if c.Tag == w.ActiveTag {
			continue
		}
		plan.Merge(layout.MoveToTag(id, w.ActiveTag))
		moved = true
	}
	return plan, moved
}
