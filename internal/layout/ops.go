package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Dispatcher executes compositor dispatch commands.
type Dispatcher interface {
	Dispatch(args ...string) error
}

// BatchDispatcher executes several dispatch commands in a single payload.
type BatchDispatcher interface {
	DispatchBatch(commands [][]string) error
}

// ErrBatchUnsupported signals that the dispatcher cannot batch, and the
// caller should fall back to sequential dispatch.
var ErrBatchUnsupported = errors.New("batch dispatch unsupported")

// Plan is a collection of sequential compositor dispatch commands.
type Plan struct {
	Commands [][]string
}

// Add appends a dispatch invocation.
func (p *Plan) Add(args ...string) {
	p.Commands = append(p.Commands, args)
}

// Merge merges other plan into this one.
func (p *Plan) Merge(other Plan) {
	p.Commands = append(p.Commands, other.Commands...)
}

// Spawn launches a command line, fire and forget.
func Spawn(command string) Plan {
	var p Plan
	p.Add("exec", command)
	return p
}

// Focus focuses the provided client id.
func Focus(id string) Plan {
	var p Plan
	p.Add("focuswindow", clientRef(id))
	return p
}

// Show maps a previously hidden client.
func Show(id string) Plan {
	var p Plan
	p.Add("showwindow", clientRef(id))
	return p
}

// Hide unmaps a client while keeping it managed.
func Hide(id string) Plan {
	var p Plan
	p.Add("hidewindow", clientRef(id))
	return p
}

// MoveToTag moves a client to the named tag.
func MoveToTag(id, tag string) Plan {
	var p Plan
	p.Add("movetotag", clientRef(id), tag)
	return p
}

// Place moves and resizes a client to rect without changing its float state.
func Place(id string, rect Rect) Plan {
	var p Plan
	ref := clientRef(id)
	p.Add("movewindowpixel", ref, fmt.Sprintf("%d", int(rect.X)), fmt.Sprintf("%d", int(rect.Y)))
	p.Add("resizewindowpixel", ref, fmt.Sprintf("%d", int(rect.Width)), fmt.Sprintf("%d", int(rect.Height)))
	return p
}

// Float makes the client floating without touching its geometry.
func Float(id string) Plan {
	var p Plan
	p.Add("setfloating", clientRef(id), "1")
	return p
}

// FloatAndPlace ensures the client is floating and resized/moved to rect.
func FloatAndPlace(id string, rect Rect) Plan {
	var p Plan
	p.Add("setfloating", clientRef(id), "1")
	p.Merge(Place(id, rect))
	return p
}

func clientRef(id string) string {
	return fmt.Sprintf("id:%s", id)
}

// Execute applies the plan using dispatcher, batching when supported.
func (p Plan) Execute(d Dispatcher) error {
	if batcher, ok := d.(BatchDispatcher); ok && len(p.Commands) > 1 {
		err := batcher.DispatchBatch(p.Commands)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrBatchUnsupported) {
			return fmt.Errorf("dispatch batch: %w", err)
		}
	}
	for _, cmd := range p.Commands {
		if err := d.Dispatch(cmd...); err != nil {
			return fmt.Errorf("dispatch %s: %w", strings.Join(cmd, " "), err)
		}
	}
	return nil
}
