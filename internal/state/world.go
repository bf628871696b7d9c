package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/dddelispt42/hwm/internal/layout"
)

// Client describes a managed window. ID, Class, and Title are assigned by the
// compositor and treated as read-only identity here.
type Client struct {
	ID       string
	Class    string
	Title    string
	Tag      string
	Floating bool
	Hidden   bool
	Geometry layout.Rect
	Monitor  string
}

// Tag describes a named client grouping.
type Tag struct {
	Name    string
	Monitor string
}

// Monitor describes a monitor and its logical size.
type Monitor struct {
	ID        int
	Name      string
	Rectangle layout.Rect
	ActiveTag string
}

// World represents the current snapshot of the compositor.
type World struct {
	Clients        []Client
	Tags           []Tag
	Monitors       []Monitor
	ActiveTag      string
	ActiveClientID string
}

// DataSource abstracts queries required to build the world snapshot.
type DataSource interface {
	ListClients(ctx context.Context) ([]Client, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListMonitors(ctx context.Context) ([]Monitor, error)
	ActiveTag(ctx context.Context) (string, error)
	ActiveClientID(ctx context.Context) (string, error)
}

// NewWorld creates a world snapshot using the provided data source.
func NewWorld(ctx context.Context, src DataSource) (*World, error) {
	clients, err := src.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := src.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	monitors, err := src.ListMonitors(ctx)
	if err != nil {
		return nil, err
	}
	activeTag, err := src.ActiveTag(ctx)
	if err != nil {
		return nil, err
	}
	activeClient, err := src.ActiveClientID(ctx)
	if err != nil {
		return nil, err
	}
	world := &World{
		Clients:        clients,
		Tags:           tags,
		Monitors:       monitors,
		ActiveTag:      activeTag,
		ActiveClientID: activeClient,
	}
	tagMonitor := make(map[string]string)
	for _, tag := range tags {
		tagMonitor[tag.Name] = tag.Monitor
	}
	for i := range world.Clients {
		c := &world.Clients[i]
		if c.Monitor == "" {
			if name, ok := tagMonitor[c.Tag]; ok {
				c.Monitor = name
			}
		}
	}
	return world, nil
}

// FindClient returns the client with id, or nil.
func (w *World) FindClient(id string) *Client {
	for i := range w.Clients {
		if w.Clients[i].ID == id {
			return &w.Clients[i]
		}
	}
	return nil
}

// ActiveClient returns the active client if present.
func (w *World) ActiveClient() *Client {
	if w.ActiveClientID == "" {
		return nil
	}
	return w.FindClient(w.ActiveClientID)
}

// MonitorByName finds a monitor by name.
func (w *World) MonitorByName(name string) *Monitor {
	for i := range w.Monitors {
		if w.Monitors[i].Name == name {
			return &w.Monitors[i]
		}
	}
	return nil
}

// TagByName finds a tag by name.
func (w *World) TagByName(name string) *Tag {
	for i := range w.Tags {
		if w.Tags[i].Name == name {
			return &w.Tags[i]
		}
	}
	return nil
}

// MonitorForTag resolves the monitor owning the named tag.
func (w *World) MonitorForTag(name string) (*Monitor, error) {
	tag := w.TagByName(name)
	if tag == nil {
		return nil, errors.New("tag not found")
	}
	mon := w.MonitorByName(tag.Monitor)
	if mon == nil {
		return nil, errors.New("monitor not found for tag")
	}
	return mon, nil
}

// ActiveMonitor resolves the monitor owning the active tag, falling back to
// the first monitor when the tag has no binding yet.
func (w *World) ActiveMonitor() (*Monitor, error) {
	if mon, err := w.MonitorForTag(w.ActiveTag); err == nil {
		return mon, nil
	}
	if len(w.Monitors) > 0 {
		return &w.Monitors[0], nil
	}
	return nil, errors.New("no monitors")
}

// TiledClients returns the clients participating in tiling on the named tag:
// mapped, non-floating, in world order.
func (w *World) TiledClients(tag string) []Client {
	var out []Client
	for _, c := range w.Clients {
		if c.Tag == tag && !c.Floating && !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// UpsertClient inserts or replaces the client record, reporting whether the
// world changed.
func (w *World) UpsertClient(c Client) (bool, error) {
	if c.ID == "" {
		return false, errors.New("client id cannot be empty")
	}
	for i := range w.Clients {
		if w.Clients[i].ID == c.ID {
			if w.Clients[i] == c {
				return false, nil
			}
			w.Clients[i] = c
			return true, nil
		}
	}
	w.Clients = append(w.Clients, c)
	return true, nil
}

// RemoveClient removes a client by id and returns the removed record.
func (w *World) RemoveClient(id string) (Client, error) {
	for i := range w.Clients {
		if w.Clients[i].ID == id {
			removed := w.Clients[i]
			w.Clients = append(w.Clients[:i], w.Clients[i+1:]...)
			if w.ActiveClientID == id {
				w.ActiveClientID = ""
			}
			return removed, nil
		}
	}
	return Client{}, fmt.Errorf("client %s not found", id)
}

// SetActiveClient updates the focused client, reporting whether it changed.
func (w *World) SetActiveClient(id string) bool {
	if w.ActiveClientID == id {
		return false
	}
	w.ActiveClientID = id
	return true
}

// SetActiveTag switches the active tag, reporting whether it changed.
func (w *World) SetActiveTag(name string) (bool, error) {
	if name == "" {
		return false, errors.New("tag name cannot be empty")
	}
	if w.TagByName(name) == nil {
		w.Tags = append(w.Tags, Tag{Name: name})
	}
	if w.ActiveTag == name {
		return false, nil
	}
	w.ActiveTag = name
	return true, nil
}

// MoveClient re-homes a client to the named tag.
func (w *World) MoveClient(id, tag string) (bool, error) {
	c := w.FindClient(id)
	if c == nil {
		return false, fmt.Errorf("client %s not found", id)
	}
	if c.Tag == tag {
		return false, nil
	}
	c.Tag = tag
	if t := w.TagByName(tag); t != nil {
		c.Monitor = t.Monitor
	}
	return true, nil
}

// SetClientTitle updates the human-readable title of a client.
func (w *World) SetClientTitle(id, title string) (bool, error) {
	c := w.FindClient(id)
	if c == nil {
		return false, fmt.Errorf("client %s not found", id)
	}
	if c.Title == title {
		return false, nil
	}
	c.Title = title
	return true, nil
}

// SetClientHidden records the mapped state of a client.
func (w *World) SetClientHidden(id string, hidden bool) (bool, error) {
	c := w.FindClient(id)
	if c == nil {
		return false, fmt.Errorf("client %s not found", id)
	}
	if c.Hidden == hidden {
		return false, nil
	}
	c.Hidden = hidden
	return true, nil
}

// SetClientFloating records the float state of a client.
func (w *World) SetClientFloating(id string, floating bool) (bool, error) {
	c := w.FindClient(id)
	if c == nil {
		return false, fmt.Errorf("client %s not found", id)
	}
	if c.Floating == floating {
		return false, nil
	}
	c.Floating = floating
	return true, nil
}

// CloneWorld returns a deep copy of the provided world snapshot.
func CloneWorld(src *World) *World {
	if src == nil {
		return nil
	}
	copyWorld := *src
	if len(src.Clients) > 0 {
		copyWorld.Clients = append([]Client(nil), src.Clients...)
	}
	if len(src.Tags) > 0 {
		copyWorld.Tags = append([]Tag(nil), src.Tags...)
	}
	if len(src.Monitors) > 0 {
		copyWorld.Monitors = append([]Monitor(nil), src.Monitors...)
	}
	return &copyWorld
}
