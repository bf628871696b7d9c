package config

import (
	"strings"
	"testing"
)

func TestDiffSerialized(t *testing.T) {
	oldData := []byte("barHeight: 31\nreflect: false\n")
	newData := []byte("barHeight: 31\nreflect: true\n")

	diff := DiffSerialized(oldData, newData)
	if diff == "" {
		t.Fatalf("expected diff, got empty string")
	}
	if !strings.Contains(diff, "reflect: false") {
		t.Fatalf("expected diff to contain original line, got %s", diff)
	}
	if !strings.Contains(diff, "reflect: true") {
		t.Fatalf("expected diff to contain updated line, got %s", diff)
	}
	if got := DiffSerialized(oldData, oldData); got != "" {
		t.Fatalf("expected empty diff for identical payloads, got %s", got)
	}
}
