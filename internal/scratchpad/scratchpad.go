package scratchpad

import (
	"fmt"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/rules"
	"github.com/dddelispt42/hwm/internal/state"
)

// State enumerates the lifecycle of a named scratchpad.
type State int

const (
	// StateEmpty means no client is tracked and no spawn is pending.
	StateEmpty State = iota
	// StatePendingSpawn means a spawn was issued and the controller is
	// waiting to claim a matching client.
	StatePendingSpawn
	// StateHidden means the tracked client exists but is unmapped.
	StateHidden
	// StateVisible means the tracked client is shown at its configured
	// floating placement.
	StateVisible
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePendingSpawn:
		return "pending-spawn"
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Scratchpad owns the identity of at most one managed client and toggles it
// between a hidden state and a floating placement covering a configured
// fraction of the screen.
type Scratchpad struct {
	name        string
	command     string
	match       rules.Matcher
	widthRatio  float64
	heightRatio float64
	focusOnShow bool

	state    State
	clientID string
}

// New creates a scratchpad. Geometry fractions outside (0,1] are rejected
// here so the daemon never runs with an invalid definition.
func New(name, command string, match rules.Matcher, widthRatio, heightRatio float64, focusOnShow bool) (*Scratchpad, error) {
	if name == "" {
		return nil, fmt.Errorf("scratchpad name cannot be empty")
	}
	if command == "" {
		return nil, fmt.Errorf("scratchpad %q: command cannot be empty", name)
	}
	if match == nil {
		return nil, fmt.Errorf("scratchpad %q: matcher cannot be nil", name)
	}
	if widthRatio <= 0 || widthRatio > 1 {
		return nil, fmt.Errorf("scratchpad %q: width ratio must be in (0,1], got %v", name, widthRatio)
	}
	if heightRatio <= 0 || heightRatio > 1 {
		return nil, fmt.Errorf("scratchpad %q: height ratio must be in (0,1], got %v", name, heightRatio)
	}
	return &Scratchpad{
		name:        name,
		command:     command,
		match:       match,
		widthRatio:  widthRatio,
		heightRatio: heightRatio,
		focusOnShow: focusOnShow,
	}, nil
}

// BuildAll compiles the configured scratchpads.
func BuildAll(cfg *config.Config) ([]*Scratchpad, error) {
	pads := make([]*Scratchpad, 0, len(cfg.Scratchpads))
	for _, sc := range cfg.Scratchpads {
		matcher, err := rules.CompileMatcher(sc.Match)
		if err != nil {
			return nil, fmt.Errorf("scratchpad %q: %w", sc.Name, err)
		}
		pad, err := New(sc.Name, sc.Command, matcher, sc.Width, sc.Height, sc.FocusOnShow())
		if err != nil {
			return nil, err
		}
		pads = append(pads, pad)
	}
	return pads, nil
}

// Name returns the scratchpad name.
func (s *Scratchpad) Name() string { return s.name }

// State returns the current lifecycle state.
func (s *Scratchpad) State() State { return s.state }

// ClientID returns the tracked client id, or empty.
func (s *Scratchpad) ClientID() string { return s.clientID }

// Toggle advances the state machine and returns the plan to dispatch.
// Toggling while a spawn is pending is a deliberate no-op so rapid repeated
// key presses issue exactly one spawn.
func (s *Scratchpad) Toggle(w *state.World) (layout.Plan, error) {
	// A tracked client that vanished without a destroy notification drops
	// the slot; the toggle then behaves as if nothing was ever claimed.
	if s.clientID != "" && w.FindClient(s.clientID) == nil {
		s.reset()
	}
	switch s.state {
	case StateEmpty:
		s.state = StatePendingSpawn
		return layout.Spawn(s.command), nil
	case StatePendingSpawn:
		return layout.Plan{}, nil
	case StateVisible:
		s.state = StateHidden
		return layout.Hide(s.clientID), nil
	case StateHidden:
		plan, err := s.showPlan(w)
		if err != nil {
			return layout.Plan{}, err
		}
		s.state = StateVisible
		return plan, nil
	}
	return layout.Plan{}, fmt.Errorf("scratchpad %q in unknown state %v", s.name, s.state)
}

// ClientCreated offers a freshly created client to the scratchpad. The
// client is claimed only while a spawn is pending and the predicate holds;
// everything else falls through to normal window management.
func (s *Scratchpad) ClientCreated(w *state.World, c state.Client) (layout.Plan, bool, error) {
	if s.state != StatePendingSpawn || !s.match(c) {
		return layout.Plan{}, false, nil
	}
	s.clientID = c.ID
	plan, err := s.showPlan(w)
	if err != nil {
		s.reset()
		return layout.Plan{}, false, err
	}
	s.state = StateVisible
	return plan, true, nil
}

// ClientDestroyed clears the slot when the tracked client disappears,
// reporting whether this scratchpad owned it.
func (s *Scratchpad) ClientDestroyed(id string) bool {
	if s.clientID == "" || s.clientID != id {
		return false
	}
	s.reset()
	return true
}

// showPlan re-applies the configured geometry fraction on every transition
// into the visible state, resetting any manual resize by the user.
func (s *Scratchpad) showPlan(w *state.World) (layout.Plan, error) {
	mon, err := w.ActiveMonitor()
	if err != nil {
		return layout.Plan{}, fmt.Errorf("scratchpad %q: %w", s.name, err)
	}
	rect := layout.CenteredFraction(mon.Rectangle, s.widthRatio, s.heightRatio)
	var plan layout.Plan
	if c := w.FindClient(s.clientID); c != nil && c.Tag != w.ActiveTag {
		plan.Merge(layout.MoveToTag(s.clientID, w.ActiveTag))
	}
	plan.Merge(layout.Show(s.clientID))
	plan.Merge(layout.FloatAndPlace(s.clientID, rect))
	if s.focusOnShow {
		plan.Merge(layout.Focus(s.clientID))
	}
	return plan, nil
}

// AdoptState carries the lifecycle state and tracked client over from a
// previous definition with the same name, so a config reload does not orphan
// a claimed client.
func (s *Scratchpad) AdoptState(prev *Scratchpad) {
	if prev == nil {
		return
	}
	s.state = prev.state
	s.clientID = prev.clientID
}

func (s *Scratchpad) reset() {
	s.state = StateEmpty
	s.clientID = ""
}
