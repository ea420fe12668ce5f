package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestVerboseGatesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written without verbose: %q", buf.String())
	}
	New(&buf, true).Named("ads1119").Debug("status")
	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "ads1119") || !strings.Contains(out, "status") {
		t.Fatalf("verbose output = %q", out)
	}
}
