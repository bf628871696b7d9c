package ipc

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s: %v", key, err)
	}
	t.Cleanup(func() {
		if !had {
			os.Unsetenv(key)
			return
		}
		os.Setenv(key, original)
	})
}

// listenInstanceSocket points the package environment at a temp instance
// directory and listens on the named socket inside it.
func listenInstanceSocket(t *testing.T, name string) net.Listener {
	t.Helper()
	runtimeDir := t.TempDir()
	sig := "test-instance"
	setEnv(t, "XDG_RUNTIME_DIR", runtimeDir)
	setEnv(t, "HWM_INSTANCE_SIGNATURE", sig)

	socketPath := filepath.Join(runtimeDir, "hwm", sig, name)
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	return listener
}
