package engine

import (
	"errors"
	"fmt"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/rules"
	"github.com/dddelispt42/hwm/internal/scratchpad"
	"github.com/dddelispt42/hwm/internal/state"
)

// ErrStickyDisabled is returned for sticky operations before registration.
var ErrStickyDisabled = errors.New("sticky extension not registered")

// ToggleScratchpad toggles the named scratchpad and applies its plan.
func (e *Engine) ToggleScratchpad(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastWorld == nil {
		return errors.New("world not initialized yet")
	}
	for _, pad := range e.pads {
		if pad.Name() != name {
			continue
		}
		plan, err := pad.Toggle(e.lastWorld)
		if err != nil {
			return err
		}
		e.logger.Infof("scratchpad %s toggled to %s", name, pad.State())
		if err := e.executePlanLocked(plan); err != nil {
			return err
		}
		return e.refreshLocked()
	}
	return fmt.Errorf("unknown scratchpad %q", name)
}

// ToggleSticky flips sticky membership for the client, defaulting to the
// focused client when id is empty. Returns the resolved client id and
// whether the client is pinned afterwards.
func (e *Engine) ToggleSticky(id string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sticky == nil {
		return "", false, ErrStickyDisabled
	}
	if e.lastWorld == nil {
		return "", false, errors.New("world not initialized yet")
	}
	if id == "" {
		id = e.lastWorld.ActiveClientID
		if id == "" {
			return "", false, errors.New("no focused client to pin")
		}
	}
	if e.lastWorld.FindClient(id) == nil {
		return "", false, fmt.Errorf("client %s not found", id)
	}
	pinned := e.sticky.Toggle(id)
	if pinned {
		e.logger.Infof("client %s pinned", id)
	} else {
		e.logger.Infof("client %s unpinned", id)
	}
	return id, pinned, nil
}

// CycleLayout advances the layout selection and retiles, returning the new
// layout name. Reverse selects the previous layout instead.
func (e *Engine) CycleLayout(reverse bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var current layout.Layout
	if reverse {
		current = e.layouts.Prev()
	} else {
		current = e.layouts.Next()
	}
	e.logger.Infof("layout switched to %s", current.Name())
	return current.Name(), e.refreshLocked()
}

// SetLayout selects a layout by name and retiles.
func (e *Engine) SetLayout(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.layouts.SetByName(name); err != nil {
		return err
	}
	e.logger.Infof("layout switched to %s", name)
	return e.refreshLocked()
}

// LayoutMessage delivers a typed message to the current layout and retiles
// when the layout consumed it.
func (e *Engine) LayoutMessage(name string) error {
	msg, err := layout.ParseMessage(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.layouts.HandleMessage(msg) {
		e.logger.Debugf("layout %s ignored message %s", e.layouts.Current().Name(), msg)
		return nil
	}
	return e.refreshLocked()
}

// ScratchpadStatus describes one scratchpad for inspection.
type ScratchpadStatus struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Client string `json:"client,omitempty"`
}

// Snapshot captures the externally visible runtime state.
type Snapshot struct {
	ActiveLayout string             `json:"activeLayout"`
	Layouts      []string           `json:"layouts"`
	Scratchpads  []ScratchpadStatus `json:"scratchpads,omitempty"`
	Sticky       []string           `json:"sticky,omitempty"`
	World        *state.World       `json:"world,omitempty"`
}

// Inspect returns a copy of the runtime state for the control surface.
func (e *Engine) Inspect() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		ActiveLayout: e.layouts.Current().Name(),
		Layouts:      e.layouts.Names(),
		World:        state.CloneWorld(e.lastWorld),
	}
	for _, pad := range e.pads {
		snap.Scratchpads = append(snap.Scratchpads, ScratchpadStatus{
			Name:   pad.Name(),
			State:  pad.State().String(),
			Client: pad.ClientID(),
		})
	}
	if e.sticky != nil {
		snap.Sticky = e.sticky.IDs()
	}
	return snap
}

// LastWorld returns the most recent world snapshot.
func (e *Engine) LastWorld() *state.World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.CloneWorld(e.lastWorld)
}

// ReloadConfig swaps in a freshly validated configuration. The layout
// selection and scratchpad client claims survive the reload when their
// names still exist.
func (e *Engine) ReloadConfig(cfg *config.Config) error {
	layouts, err := BuildLayoutStack(cfg)
	if err != nil {
		return err
	}
	spawnRules, err := rules.BuildSpawnRules(cfg)
	if err != nil {
		return err
	}
	pads, err := scratchpad.BuildAll(cfg)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	selected := e.layouts.Current().Name()
	previous := make(map[string]*scratchpad.Scratchpad, len(e.pads))
	for _, pad := range e.pads {
		previous[pad.Name()] = pad
	}
	for _, pad := range pads {
		if old, ok := previous[pad.Name()]; ok {
			pad.AdoptState(old)
		}
	}
	e.layouts = layouts
	e.spawnRules = spawnRules
	e.pads = pads
	if err := e.layouts.SetByName(selected); err != nil {
		e.logger.Warnf("layout %s gone after reload, using %s", selected, e.layouts.Current().Name())
	}
	e.logger.Infof("configuration reloaded: %d layouts, %d spawn rules, %d scratchpads",
		len(layouts.Names()), len(spawnRules), len(pads))
	return e.refreshLocked()
}
