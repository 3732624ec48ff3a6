package logging

import (
	"strings"
	"testing"
)

func TestDebugfRespectsVerboseFlag(t *testing.T) {
	var buf strings.Builder
	SetOutput(&buf)
	defer SetVerbose(false)

	SetVerbose(false)
	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("Debugf must be silent when verbose is off, got %q", buf.String())
	}

	SetVerbose(true)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Fatalf("Debugf must log when verbose is on, got %q", buf.String())
	}
}

func TestInfofAlwaysLogsRegardlessOfVerbose(t *testing.T) {
	var buf strings.Builder
	SetOutput(&buf)
	SetVerbose(false)
	defer SetVerbose(false)

	Infof("always %s", "on")
	if !strings.Contains(buf.String(), "always on") {
		t.Fatalf("Infof must log regardless of verbose flag, got %q", buf.String())
	}
}
