package scratchpad

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/rules"
	"github.com/dddelispt42/hwm/internal/state"
)

func padFixture(t *testing.T) *Scratchpad {
	t.Helper()
	matcher, err := rules.CompileMatcher(config.MatcherConfig{Class: "StScratchpad"})
	if err != nil {
		t.Fatalf("compile matcher: %v", err)
	}
	pad, err := New("terminal", "st -c StScratchpad", matcher, 0.8, 0.8, true)
	if err != nil {
		t.Fatalf("new scratchpad: %v", err)
	}
	return pad
}

func worldFixture() *state.World {
	return &state.World{
		Tags:      []state.Tag{{Name: "1", Monitor: "DP-1"}, {Name: "2", Monitor: "DP-1"}},
		Monitors:  []state.Monitor{{Name: "DP-1", ActiveTag: "1", Rectangle: layout.Rect{Width: 1920, Height: 1080}}},
		ActiveTag: "1",
	}
}

func countSpawns(plans ...layout.Plan) int {
	n := 0
	for _, p := range plans {
		for _, cmd := range p.Commands {
			if len(cmd) > 0 && cmd[0] == "exec" {
				n++
			}
		}
	}
	return n
}

func TestToggleLifecycleRetainsClient(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()

	plan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if pad.State() != StatePendingSpawn {
		t.Fatalf("expected pending-spawn, got %v", pad.State())
	}
	if got := countSpawns(plan); got != 1 {
		t.Fatalf("expected one spawn, got %d", got)
	}

	created := state.Client{ID: "0xpad", Class: "StScratchpad", Tag: "1"}
	if _, err := w.UpsertClient(created); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	showPlan, claimed, err := pad.ClientCreated(w, created)
	if err != nil || !claimed {
		t.Fatalf("expected claim, claimed=%v err=%v", claimed, err)
	}
	if pad.State() != StateVisible || pad.ClientID() != "0xpad" {
		t.Fatalf("expected visible with 0xpad, got %v %q", pad.State(), pad.ClientID())
	}
	wantRect := []string{"movewindowpixel", "id:0xpad", "192", "108"}
	found := false
	for _, cmd := range showPlan.Commands {
		if cmp.Equal(cmd, wantRect) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected placement %v in %v", wantRect, showPlan.Commands)
	}

	hidePlan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle hide: %v", err)
	}
	if pad.State() != StateHidden || pad.ClientID() != "0xpad" {
		t.Fatalf("expected hidden with id retained, got %v %q", pad.State(), pad.ClientID())
	}
	if len(hidePlan.Commands) != 1 || hidePlan.Commands[0][0] != "hidewindow" {
		t.Fatalf("expected hide command, got %v", hidePlan.Commands)
	}

	reshowPlan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle reshow: %v", err)
	}
	if pad.State() != StateVisible || pad.ClientID() != "0xpad" {
		t.Fatalf("expected visible with same id, got %v %q", pad.State(), pad.ClientID())
	}
	found = false
	for _, cmd := range reshowPlan.Commands {
		if cmp.Equal(cmd, wantRect) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected geometry re-applied identically, got %v", reshowPlan.Commands)
	}
}

func TestScratchpadScenarioEightyPercent(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()

	spawnPlan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	want := [][]string{{"exec", "st -c StScratchpad"}}
	if diff := cmp.Diff(want, spawnPlan.Commands); diff != "" {
		t.Fatalf("unexpected spawn plan (-want +got):\n%s", diff)
	}

	created := state.Client{ID: "0xpad", Class: "StScratchpad", Tag: "1"}
	w.UpsertClient(created)
	plan, claimed, err := pad.ClientCreated(w, created)
	if err != nil || !claimed {
		t.Fatalf("expected claim, claimed=%v err=%v", claimed, err)
	}
	wantShow := [][]string{
		{"showwindow", "id:0xpad"},
		{"setfloating", "id:0xpad", "1"},
		{"movewindowpixel", "id:0xpad", "192", "108"},
		{"resizewindowpixel", "id:0xpad", "1536", "864"},
		{"focuswindow", "id:0xpad"},
	}
	if diff := cmp.Diff(wantShow, plan.Commands); diff != "" {
		t.Fatalf("unexpected show plan (-want +got):\n%s", diff)
	}
}

func TestDoubleToggleWhilePendingSpawnsOnce(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()
	first, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	second, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := countSpawns(first, second); got != 1 {
		t.Fatalf("expected exactly one spawn, got %d", got)
	}
	if pad.State() != StatePendingSpawn {
		t.Fatalf("expected still pending, got %v", pad.State())
	}
}

func TestUnmatchedClientFallsThrough(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()
	pad.Toggle(w)
	other := state.Client{ID: "0xother", Class: "firefox", Tag: "1"}
	w.UpsertClient(other)
	_, claimed, err := pad.ClientCreated(w, other)
	if err != nil {
		t.Fatalf("client created: %v", err)
	}
	if claimed {
		t.Fatalf("expected unmatched client to fall through")
	}
	if pad.State() != StatePendingSpawn {
		t.Fatalf("expected pending to survive unmatched client, got %v", pad.State())
	}
}

func TestClientDestroyedClearsSlot(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()
	pad.Toggle(w)
	created := state.Client{ID: "0xpad", Class: "StScratchpad", Tag: "1"}
	w.UpsertClient(created)
	pad.ClientCreated(w, created)
	if !pad.ClientDestroyed("0xpad") {
		t.Fatalf("expected destroy to be owned")
	}
	if pad.State() != StateEmpty || pad.ClientID() != "" {
		t.Fatalf("expected empty slot, got %v %q", pad.State(), pad.ClientID())
	}
	if pad.ClientDestroyed("0xpad") {
		t.Fatalf("expected second destroy to be unowned")
	}
}

func TestToggleRespawnsWhenClientVanished(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()
	pad.Toggle(w)
	created := state.Client{ID: "0xpad", Class: "StScratchpad", Tag: "1"}
	w.UpsertClient(created)
	pad.ClientCreated(w, created)
	// Client disappears without a destroy notification.
	w.RemoveClient("0xpad")
	plan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if pad.State() != StatePendingSpawn {
		t.Fatalf("expected respawn, got %v", pad.State())
	}
	if got := countSpawns(plan); got != 1 {
		t.Fatalf("expected one spawn, got %d", got)
	}
}

func TestShowMovesClientToActiveTag(t *testing.T) {
	pad := padFixture(t)
	w := worldFixture()
	pad.Toggle(w)
	created := state.Client{ID: "0xpad", Class: "StScratchpad", Tag: "1"}
	w.UpsertClient(created)
	pad.ClientCreated(w, created)
	pad.Toggle(w) // hide
	w.SetActiveTag("2")
	plan, err := pad.Toggle(w)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	found := false
	for _, cmd := range plan.Commands {
		if len(cmd) == 3 && cmd[0] == "movetotag" && cmd[2] == "2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected movetotag to active tag, got %v", plan.Commands)
	}
}

func TestNewRejectsInvalidFractions(t *testing.T) {
	matcher := func(state.Client) bool { return true }
	if _, err := New("x", "st", matcher, 0, 0.8, false); err == nil {
		t.Fatalf("expected error for zero width ratio")
	}
	if _, err := New("x", "st", matcher, 0.8, 1.2, false); err == nil {
		t.Fatalf("expected error for height ratio above one")
	}
	if _, err := New("x", "st", matcher, 1, 1, false); err != nil {
		t.Fatalf("ratio of exactly one is allowed: %v", err)
	}
}

func TestBuildAllFromConfig(t *testing.T) {
	cfg := &config.Config{Scratchpads: []config.ScratchpadConfig{{
		Name:    "terminal",
		Command: "st -c StScratchpad",
		Match:   config.MatcherConfig{Class: "StScratchpad"},
		Width:   0.8,
		Height:  0.8,
	}}}
	pads, err := BuildAll(cfg)
	if err != nil {
		t.Fatalf("build all: %v", err)
	}
	if len(pads) != 1 || pads[0].Name() != "terminal" {
		t.Fatalf("unexpected pads %v", pads)
	}
	if !pads[0].focusOnShow {
		t.Fatalf("expected focus default true")
	}
}
