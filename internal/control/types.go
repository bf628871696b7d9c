package control

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	// SocketFileName is the filename of the control socket within the runtime dir.
	SocketFileName = "control.sock"

	// Action names supported by the control protocol.
	ActionScratchpadToggle = "scratchpad.toggle"
	ActionStickyToggle     = "sticky.toggle"
	ActionLayoutCycle      = "layout.cycle"
	ActionLayoutSet        = "layout.set"
	ActionLayoutMsg        = "layout.msg"
	ActionInspect          = "inspect"
	ActionReload           = "reload"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// StickyResult reports the pin state after a sticky toggle.
type StickyResult struct {
	Client string `json:"client"`
	Pinned bool   `json:"pinned"`
}

// LayoutResult reports the active layout after a layout action.
type LayoutResult struct {
	Active string `json:"active"`
}

// DefaultSocketPath returns the expected location of the hwm control socket.
func DefaultSocketPath() (string, error) {
	if env := os.Getenv("HWM_CONTROL_SOCKET"); env != "" {
		return env, nil
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	base := runtimeDir
	if base == "" {
		base = os.TempDir()
		if base == "" {
			return "", errors.New("no runtime directory available")
		}
	}
	return filepath.Join(base, "hwm", SocketFileName), nil
}
