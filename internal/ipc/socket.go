package ipc

import (
	"fmt"
	"net"
	"strings"

	"github.com/dddelispt42/hwm/internal/layout"
)

type socketDispatcher struct {
	path string
}

func newSocketDispatcher() (*socketDispatcher, error) {
	path, err := commandSocketPath()
	if err != nil {
		return nil, err
	}
	return &socketDispatcher{path: path}, nil
}

func (d *socketDispatcher) Dispatch(args ...string) error {
	if len(args) == 0 {
		return nil
	}
	return d.DispatchBatch([][]string{args})
}

func (d *socketDispatcher) DispatchBatch(commands [][]string) error {
	if len(commands) == 0 {
		return nil
	}
	conn, err := net.Dial("unix", d.path)
	if err != nil {
		return fmt.Errorf("connect command socket: %w", err)
	}
	defer conn.Close()

	lines := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if len(cmd) == 0 {
			continue
		}
		parts := append([]string{"dispatch"}, cmd...)
		lines = append(lines, strings.Join(parts, " "))
	}
	if len(lines) == 0 {
		return nil
	}

	// Multi-dispatch payloads are framed by begin/commit markers so the
	// compositor applies them atomically between relayouts. A single
	// dispatch skips the framing.
	var payload string
	if len(lines) == 1 {
		payload = lines[0] + "\n"
	} else {
		var b strings.Builder
		b.WriteString("begin\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("commit\n")
		payload = b.String()
	}
	if _, err := conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("write dispatch payload: %w", err)
	}
	return nil
}

func (d *socketDispatcher) CommandSocketPath() string {
	return d.path
}

var _ layout.BatchDispatcher = (*socketDispatcher)(nil)
