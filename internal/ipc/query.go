package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/dddelispt42/hwm/internal/layout"
	"github.com/dddelispt42/hwm/internal/state"
	"github.com/dddelispt42/hwm/internal/util"
)

// Client issues JSON queries against the hwm command socket.
type Client struct {
	path string
}

// NewClient resolves the command socket from the environment.
func NewClient() (*Client, error) {
	path, err := commandSocketPath()
	if err != nil {
		return nil, err
	}
	return &Client{path: path}, nil
}

func (c *Client) request(ctx context.Context, payload string) ([]byte, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("connect command socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}
	if _, err := conn.Write([]byte(payload)); err != nil {
		return nil, fmt.Errorf("write query %q: %w", payload, err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write half: %w", err)
		}
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read query reply: %w", err)
	}
	return data, nil
}

func (c *Client) queryJSON(ctx context.Context, topic string) ([]byte, error) {
	return c.request(ctx, "j/"+topic)
}

// ListClients returns all managed clients.
func (c *Client) ListClients(ctx context.Context) ([]state.Client, error) {
	data, err := c.queryJSON(ctx, "clients")
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID       string    `json:"id"`
		Class    string    `json:"class"`
		Title    string    `json:"title"`
		Tag      string    `json:"tag"`
		Monitor  string    `json:"monitor"`
		Floating bool      `json:"floating"`
		Hidden   bool      `json:"hidden"`
		At       []float64 `json:"at"`
		Size     []float64 `json:"size"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	clients := make([]state.Client, 0, len(raw))
	for _, cl := range raw {
		rect := layout.Rect{}
		if len(cl.At) == 2 {
			rect.X = cl.At[0]
			rect.Y = cl.At[1]
		}
		if len(cl.Size) == 2 {
			rect.Width = cl.Size[0]
			rect.Height = cl.Size[1]
		}
		clients = append(clients, state.Client{
			ID:       cl.ID,
			Class:    cl.Class,
			Title:    cl.Title,
			Tag:      cl.Tag,
			Monitor:  cl.Monitor,
			Floating: cl.Floating,
			Hidden:   cl.Hidden,
			Geometry: rect,
		})
	}
	return clients, nil
}

// ListTags returns all known tags.
func (c *Client) ListTags(ctx context.Context) ([]state.Tag, error) {
	data, err := c.queryJSON(ctx, "tags")
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Name    string `json:"name"`
		Monitor string `json:"monitor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	tags := make([]state.Tag, 0, len(raw))
	for _, t := range raw {
		tags = append(tags, state.Tag{Name: t.Name, Monitor: t.Monitor})
	}
	return tags, nil
}

// ListMonitors returns monitor snapshots.
func (c *Client) ListMonitors(ctx context.Context) ([]state.Monitor, error) {
	data, err := c.queryJSON(ctx, "monitors")
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID        int     `json:"id"`
		Name      string  `json:"name"`
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		Width     float64 `json:"width"`
		Height    float64 `json:"height"`
		ActiveTag string  `json:"activeTag"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode monitors: %w", err)
	}
	monitors := make([]state.Monitor, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, state.Monitor{
			ID:        m.ID,
			Name:      m.Name,
			Rectangle: layout.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			ActiveTag: m.ActiveTag,
		})
	}
	return monitors, nil
}

// ActiveTag returns the currently focused tag name.
func (c *Client) ActiveTag(ctx context.Context) (string, error) {
	data, err := c.queryJSON(ctx, "activetag")
	if err != nil {
		return "", err
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode activetag: %w", err)
	}
	return payload.Name, nil
}

// ActiveClientID returns the focused client id, empty when nothing is focused.
func (c *Client) ActiveClientID(ctx context.Context) (string, error) {
	data, err := c.queryJSON(ctx, "activeclient")
	if err != nil {
		return "", err
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode activeclient: %w", err)
	}
	return payload.ID, nil
}

var _ state.DataSource = (*Client)(nil)

// Backend bundles the query client with the socket dispatcher so callers get
// the full data-source plus dispatcher surface from one handle.
type Backend struct {
	*Client
	dispatcher *socketDispatcher
}

// NewBackend resolves both socket endpoints from the environment.
func NewBackend(logger *util.Logger) (*Backend, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	disp, err := newSocketDispatcher()
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debugf("using command socket at %s", disp.CommandSocketPath())
	}
	return &Backend{Client: client, dispatcher: disp}, nil
}

// Dispatch forwards a single dispatch command.
func (b *Backend) Dispatch(args ...string) error {
	return b.dispatcher.Dispatch(args...)
}

// DispatchBatch forwards a framed multi-dispatch payload.
func (b *Backend) DispatchBatch(commands [][]string) error {
	return b.dispatcher.DispatchBatch(commands)
}

var _ layout.Dispatcher = (*Backend)(nil)
var _ layout.BatchDispatcher = (*Backend)(nil)
