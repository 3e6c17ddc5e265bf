package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newBuffered(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(log.New(&buf, "", 0), level), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBuffered(LevelWarn)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}

	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)
	got := buf.String()
	if !strings.Contains(got, "WARN: warn 3") {
		t.Errorf("missing warn line in %q", got)
	}
	if !strings.Contains(got, "ERROR: error 4") {
		t.Errorf("missing error line in %q", got)
	}
}

func TestLevelNoneSilences(t *testing.T) {
	l, buf := newBuffered(LevelNone)
	l.Errorf("boom")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWithTag(t *testing.T) {
	l, buf := newBuffered(LevelDebug)
	l.WithTag("power").Infof("sleeping")
	l.WithTag("mqtt").Debugf("connected")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "[power] sleeping" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != "[mqtt] DEBUG: connected" {
		t.Errorf("line 1: got %q", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"none", LevelNone},
		{"0", LevelNone},
		{"ERROR", LevelError},
		{"warning", LevelWarn},
		{"2", LevelWarn},
		{" info ", LevelInfo},
		{"4", LevelDebug},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
