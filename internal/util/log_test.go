package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelWarn, &buf)
	logger.Tracef("trace line")
	logger.Debugf("debug line")
	logger.Infof("info line")
	logger.Warnf("warn line")
	logger.Errorf("error line")
	got := buf.String()
	for _, absent := range []string{"trace line", "debug line", "info line"} {
		if strings.Contains(got, absent) {
			t.Fatalf("expected %q to be filtered, got %q", absent, got)
		}
	}
	for _, present := range []string{"[WARN] warn line", "[ERROR] error line"} {
		if !strings.Contains(got, present) {
			t.Fatalf("expected %q in output, got %q", present, got)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := ParseLogLevel("TRACE"); got != LevelTrace {
		t.Fatalf("expected trace, got %v", got)
	}
	if got := ParseLogLevel("bogus"); got != LevelInfo {
		t.Fatalf("expected default info, got %v", got)
	}
}
