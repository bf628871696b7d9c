package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dddelispt42/hwm/internal/control"
	"github.com/dddelispt42/hwm/internal/engine"
)

const (
	// defaultTimeout is used when the caller does not provide a context deadline.
	defaultTimeout = 3 * time.Second
)

// Client talks to the running hwm daemon over its control socket.
type Client struct {
	socketPath string
}

type (
	// StickyResult reports the pin state after a sticky toggle.
	StickyResult = control.StickyResult
	// LayoutResult reports the active layout after a layout action.
	LayoutResult = control.LayoutResult
	// Snapshot captures the daemon's inspect payload.
	Snapshot = engine.Snapshot
)

// New creates a client that connects to the provided socket path. When path is
// empty, the default runtime path is used.
func New(path string) (*Client, error) {
	if path == "" {
		var err error
		path, err = control.DefaultSocketPath()
		if err != nil {
			return nil, err
		}
	}
	return &Client{socketPath: path}, nil
}

// ToggleScratchpad toggles the named scratchpad.
func (c *Client) ToggleScratchpad(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("scratchpad name cannot be empty")
	}
	payload := control.Request{Action: control.ActionScratchpadToggle, Params: map[string]any{"name": name}}
	return c.do(ctx, payload, nil)
}

// ToggleSticky flips sticky membership for the client id, or for the focused
// client when id is empty.
func (c *Client) ToggleSticky(ctx context.Context, id string) (StickyResult, error) {
	payload := control.Request{Action: control.ActionStickyToggle, Params: map[string]any{"client": id}}
	var result StickyResult
	if err := c.do(ctx, payload, &result); err != nil {
		return StickyResult{}, err
	}
	return result, nil
}

// CycleLayout advances the layout selection and returns the new active name.
func (c *Client) CycleLayout(ctx context.Context, reverse bool) (LayoutResult, error) {
	payload := control.Request{Action: control.ActionLayoutCycle, Params: map[string]any{"reverse": reverse}}
	var result LayoutResult
	if err := c.do(ctx, payload, &result); err != nil {
		return LayoutResult{}, err
	}
	return result, nil
}

// SetLayout selects a layout by name.
func (c *Client) SetLayout(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("layout name cannot be empty")
	}
	payload := control.Request{Action: control.ActionLayoutSet, Params: map[string]any{"name": name}}
	return c.do(ctx, payload, nil)
}

// LayoutMessage delivers a message to the active layout.
func (c *Client) LayoutMessage(ctx context.Context, msg string) error {
	if msg == "" {
		return errors.New("layout message cannot be empty")
	}
	payload := control.Request{Action: control.ActionLayoutMsg, Params: map[string]any{"msg": msg}}
	return c.do(ctx, payload, nil)
}

// Inspect retrieves the daemon's runtime snapshot.
func (c *Client) Inspect(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, control.Request{Action: control.ActionInspect}, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionReload}, nil)
}

func (c *Client) do(ctx context.Context, req control.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial control socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	var resp control.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != control.StatusOK {
		if resp.Error == "" {
			resp.Error = "unknown control error"
		}
		return errors.New(resp.Error)
	}
	if out == nil || resp.Data == nil {
		return nil
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
