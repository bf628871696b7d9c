package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dddelispt42/hwm/internal/config"
	"github.com/dddelispt42/hwm/internal/ipc"
	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/rules"
	"github.com/dddelispt42/hwm/internal/scratchpad"
	"github.com/dddelispt42/hwm/internal/state"
	"github.com/dddelispt42/hwm/internal/sticky"
	"github.com/dddelispt42/hwm/internal/util"
)

type compositorClient interface {
	state.DataSource
	layout.Dispatcher
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time {
	return t.Ticker.C
}

type subscribeFunc func(ctx context.Context, logger *util.Logger) (<-chan ipc.Event, error)

const (
	defaultResyncInterval = 60 * time.Second
	placementTolerancePx  = 1.0
)

// Engine ties together the world model, layouts, spawn rules, scratchpads,
// and the sticky extension.
type Engine struct {
	backend compositorClient
	logger  *util.Logger
	dryRun  bool

	mu         sync.Mutex
	layouts    *layout.Stack
	spawnRules []rules.SpawnRule
	pads       []*scratchpad.Scratchpad
	sticky     *sticky.Set
	lastWorld  *state.World
	refreshing bool

	tickerFactory func() ticker
	subscribe     subscribeFunc
}

// New creates an engine from validated configuration. Any compile failure in
// the layouts, spawn rules, or scratchpads is fatal.
func New(backend compositorClient, logger *util.Logger, cfg *config.Config, dryRun bool) (*Engine, error) {
	layouts, err := BuildLayoutStack(cfg)
	if err != nil {
		return nil, err
	}
	spawnRules, err := rules.BuildSpawnRules(cfg)
	if err != nil {
		return nil, err
	}
	pads, err := scratchpad.BuildAll(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		backend:    backend,
		logger:     logger,
		dryRun:     dryRun,
		layouts:    layouts,
		spawnRules: spawnRules,
		pads:       pads,
		tickerFactory: func() ticker {
			return realTicker{time.NewTicker(defaultResyncInterval)}
		},
		subscribe: ipc.Subscribe,
	}, nil
}

// EnableSticky registers the sticky extension. Before registration every
// sticky operation fails loudly rather than silently ignoring the request.
func (e *Engine) EnableSticky() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sticky == nil {
		e.sticky = sticky.NewSet()
	}
}

// Run starts the engine loop until context cancellation.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Reconcile(ctx); err != nil {
		return err
	}
	tick := e.newTicker()
	defer tick.Stop()

	events, err := e.subscribeEvents(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C():
			e.logger.Debugf("periodic resync tick")
			if err := e.Reconcile(ctx); err != nil {
				if ctx.Err() != nil {
					e.logger.Debugf("periodic resync aborted: %v", err)
				} else {
					e.logger.Errorf("periodic resync failed: %v", err)
				}
			}
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			if !interestingEvent(ev.Kind) {
				continue
			}
			if err := e.applyEvent(ctx, ev); err != nil {
				e.logger.Errorf("event %s apply failed: %v", ev.Kind, err)
			}
		}
	}
}

func (e *Engine) newTicker() ticker {
	if e.tickerFactory != nil {
		return e.tickerFactory()
	}
	return realTicker{time.NewTicker(defaultResyncInterval)}
}

func (e *Engine) subscribeEvents(ctx context.Context) (<-chan ipc.Event, error) {
	if e.subscribe != nil {
		return e.subscribe(ctx, e.logger)
	}
	return ipc.Subscribe(ctx, e.logger)
}

// Reconcile rebuilds the world snapshot from the compositor and retiles.
func (e *Engine) Reconcile(ctx context.Context) error {
	world, err := state.NewWorld(ctx, e.backend)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastWorld = world
	e.logger.Debugf("world resynced: %d clients, %d tags, %d monitors",
		len(world.Clients), len(world.Tags), len(world.Monitors))
	return e.refreshLocked()
}

func (e *Engine) applyEvent(ctx context.Context, ev ipc.Event) error {
	e.mu.Lock()
	if e.lastWorld == nil {
		e.mu.Unlock()
		return e.Reconcile(ctx)
	}
	mutated, err := e.mutateWorldLocked(e.lastWorld, ev)
	if err != nil {
		e.mu.Unlock()
		e.logger.Warnf("incremental update fallback for %s: %v", ev.Kind, err)
		return e.Reconcile(ctx)
	}
	if !mutated {
		e.mu.Unlock()
		return nil
	}
	if err := e.runHooksLocked(ev); err != nil {
		e.mu.Unlock()
		return err
	}
	err = e.refreshLocked()
	e.mu.Unlock()
	return err
}

func (e *Engine) mutateWorldLocked(world *state.World, ev ipc.Event) (bool, error) {
	switch ev.Kind {
	case "openwindow":
		client, err := parseOpenWindowPayload(ev.Payload)
		if err != nil {
			return false, err
		}
		return world.UpsertClient(client)
	case "closewindow":
		id := strings.TrimSpace(ev.Payload)
		if id == "" {
			return false, fmt.Errorf("closewindow missing client id")
		}
		if _, err := world.RemoveClient(id); err != nil {
			return false, err
		}
		return true, nil
	case "activewindow":
		id := strings.TrimSpace(ev.Payload)
		if id == "" || strings.EqualFold(id, "0x0") {
			return world.SetActiveClient(""), nil
		}
		return world.SetActiveClient(id), nil
	case "activetag":
		monitor, name, err := parseActiveTagPayload(ev.Payload)
		if err != nil {
			return false, err
		}
		changed, err := world.SetActiveTag(name)
		if err != nil {
			return false, err
		}
		if monitor != "" {
			if t := world.TagByName(name); t != nil && t.Monitor != monitor {
				t.Monitor = monitor
				changed = true
			}
			if m := world.MonitorByName(monitor); m != nil && m.ActiveTag != name {
				m.ActiveTag = name
				changed = true
			}
		}
		return changed, nil
	case "movewindow":
		id, tag, err := parseMoveWindowPayload(ev.Payload)
		if err != nil {
			return false, err
		}
		return world.MoveClient(id, tag)
	case "windowtitle":
		id, title, err := parseWindowTitlePayload(ev.Payload)
		if err != nil {
			return false, err
		}
		return world.SetClientTitle(id, title)
	case "floatwindow":
		id, floating, err := parseFloatWindowPayload(ev.Payload)
		if err != nil {
			return false, err
		}
		return world.SetClientFloating(id, floating)
	case "monitoradded", "monitorremoved":
		// Monitor topology changes invalidate tag bindings wholesale.
		return false, fmt.Errorf("monitor topology changed")
	default:
		return false, nil
	}
}

// runHooksLocked reacts to a mutated world before the retile. Hook order on
// client creation is fixed: scratchpad claim first, spawn rules second, so a
// pending scratchpad always wins over a routing rule matching the same
// client.
func (e *Engine) runHooksLocked(ev ipc.Event) error {
	world := e.lastWorld
	switch ev.Kind {
	case "openwindow":
		id := firstPayloadField(ev.Payload)
		c := world.FindClient(id)
		if c == nil {
			return nil
		}
		for _, pad := range e.pads {
			plan, claimed, err := pad.ClientCreated(world, *c)
			if err != nil {
				return fmt.Errorf("scratchpad %s claim: %w", pad.Name(), err)
			}
			if claimed {
				e.logger.Infof("scratchpad %s claimed client %s", pad.Name(), c.ID)
				return e.executePlanLocked(plan)
			}
		}
		if rule, ok := rules.Resolve(*c, e.spawnRules); ok {
			var plan layout.Plan
			if rule.Float && !c.Floating {
				e.logger.Infof("spawn rule floats client %s (%s)", c.ID, c.Class)
				plan.Merge(layout.Float(c.ID))
			}
			if rule.Tag != "" && rule.Tag != c.Tag {
				e.logger.Infof("spawn rule routes client %s (%s) to tag %s", c.ID, c.Class, rule.Tag)
				plan.Merge(layout.MoveToTag(c.ID, rule.Tag))
			}
			if len(plan.Commands) > 0 {
				return e.executePlanLocked(plan)
			}
		}
	case "closewindow":
		id := strings.TrimSpace(ev.Payload)
		for _, pad := range e.pads {
			if pad.ClientDestroyed(id) {
				e.logger.Debugf("scratchpad %s released client %s", pad.Name(), id)
			}
		}
	case "activetag":
		if e.sticky == nil {
			return nil
		}
		plan, moved := e.sticky.Reconcile(world)
		if moved {
			e.logger.Debugf("sticky clients follow to tag %s", world.ActiveTag)
			return e.executePlanLocked(plan)
		}
	}
	return nil
}

// refreshLocked retiles the active tag. The guard keeps plan application
// from re-entering the refresh while one is in flight.
func (e *Engine) refreshLocked() error {
	if e.refreshing {
		return nil
	}
	e.refreshing = true
	defer func() { e.refreshing = false }()
	plan := e.arrangeLocked()
	return e.executePlanLocked(plan)
}

func (e *Engine) arrangeLocked() layout.Plan {
	world := e.lastWorld
	var plan layout.Plan
	if world == nil {
		return plan
	}
	mon, err := world.ActiveMonitor()
	if err != nil {
		e.logger.Debugf("skip retile: %v", err)
		return plan
	}
	tiled := world.TiledClients(world.ActiveTag)
	if len(tiled) == 0 {
		return plan
	}
	ids := make([]string, 0, len(tiled))
	byID := make(map[string]state.Client, len(tiled))
	for _, c := range tiled {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}
	placements := e.layouts.Current().Arrange(ids, mon.Rectangle)
	for _, pl := range placements {
		c, ok := byID[pl.Client]
		if !ok {
			continue
		}
		if layout.ApproximatelyEqual(c.Geometry, pl.Rect, placementTolerancePx) {
			continue
		}
		plan.Merge(layout.Place(pl.Client, pl.Rect))
	}
	return plan
}

func (e *Engine) executePlanLocked(plan layout.Plan) error {
	if len(plan.Commands) == 0 {
		return nil
	}
	if e.dryRun {
		for _, cmd := range plan.Commands {
			e.logger.Infof("dry-run: %v", cmd)
		}
		return nil
	}
	if err := plan.Execute(e.backend); err != nil {
		return err
	}
	e.applyPlanLocked(plan)
	for _, cmd := range plan.Commands {
		e.logger.Debugf("dispatched: %v", cmd)
	}
	return nil
}

// applyPlanLocked folds dispatched commands back into the world snapshot so
// follow-up decisions in the same event cycle see their effect without
// waiting for the compositor to echo events.
func (e *Engine) applyPlanLocked(plan layout.Plan) {
	world := e.lastWorld
	if world == nil {
		return
	}
	for _, cmd := range plan.Commands {
		if len(cmd) < 2 {
			continue
		}
		id := strings.TrimPrefix(cmd[1], "id:")
		switch cmd[0] {
		case "hidewindow":
			world.SetClientHidden(id, true)
		case "showwindow":
			world.SetClientHidden(id, false)
		case "setfloating":
			if len(cmd) >= 3 {
				world.SetClientFloating(id, cmd[2] == "1")
			}
		case "movetotag":
			if len(cmd) >= 3 {
				world.MoveClient(id, cmd[2])
			}
		case "focuswindow":
			world.SetActiveClient(id)
		case "movewindowpixel":
			if c := world.FindClient(id); c != nil && len(cmd) >= 4 {
				c.Geometry.X = parsePixel(cmd[2])
				c.Geometry.Y = parsePixel(cmd[3])
			}
		case "resizewindowpixel":
			if c := world.FindClient(id); c != nil && len(cmd) >= 4 {
				c.Geometry.Width = parsePixel(cmd[2])
				c.Geometry.Height = parsePixel(cmd[3])
			}
		}
	}
}

func parsePixel(s string) float64 {
	var v int
	fmt.Sscanf(s, "%d", &v)
	return float64(v)
}

func interestingEvent(kind string) bool {
	switch kind {
	case "openwindow", "closewindow", "activewindow", "activetag",
		"movewindow", "windowtitle", "floatwindow",
		"monitoradded", "monitorremoved":
		return true
	default:
		return false
	}
}

func parseOpenWindowPayload(payload string) (state.Client, error) {
	parts := splitPayload(payload, 4)
	if len(parts) < 3 {
		return state.Client{}, fmt.Errorf("invalid openwindow payload %q", payload)
	}
	if parts[0] == "" {
		return state.Client{}, fmt.Errorf("openwindow missing client id")
	}
	client := state.Client{
		ID:    parts[0],
		Tag:   parts[1],
		Class: parts[2],
	}
	if len(parts) == 4 {
		client.Title = parts[3]
	}
	return client, nil
}

func parseActiveTagPayload(payload string) (string, string, error) {
	parts := splitPayload(payload, 2)
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return "", "", fmt.Errorf("invalid activetag payload %q", payload)
		}
		return "", parts[0], nil
	case 2:
		if parts[1] == "" {
			return "", "", fmt.Errorf("invalid activetag payload %q", payload)
		}
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid activetag payload %q", payload)
	}
}

func parseMoveWindowPayload(payload string) (string, string, error) {
	parts := splitPayload(payload, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid movewindow payload %q", payload)
	}
	return parts[0], parts[1], nil
}

func parseWindowTitlePayload(payload string) (string, string, error) {
	parts := splitPayload(payload, 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid windowtitle payload %q", payload)
	}
	return parts[0], parts[1], nil
}

func parseFloatWindowPayload(payload string) (string, bool, error) {
	parts := splitPayload(payload, 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", false, fmt.Errorf("invalid floatwindow payload %q", payload)
	}
	return parts[0], parts[1] == "1", nil
}

func firstPayloadField(payload string) string {
	parts := splitPayload(payload, 2)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func splitPayload(payload string, maxParts int) []string {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil
	}
	parts := strings.SplitN(trimmed, ",", maxParts)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
