package spinner

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinner_NonTTYFallback(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter("Generating document", &buf)

	if s.isTTY {
		t.Fatal("Expected bytes.Buffer to be detected as non-TTY")
	}

	s.Start()
	if !s.IsActive() {
		t.Error("Expected spinner to be active after Start")
	}
	s.Stop()
	if s.IsActive() {
		t.Error("Expected spinner to be inactive after Stop")
	}

	out := buf.String()
	if !strings.Contains(out, "Generating document...") {
		t.Errorf("Expected static message in non-TTY mode, got %q", out)
	}
	if strings.Contains(out, hideCursor) {
		t.Error("Expected no cursor escapes in non-TTY mode")
	}
}

func TestSpinner_StartIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter("Working", &buf)

	s.Start()
	s.Start()
	s.Stop()

	if got := strings.Count(buf.String(), "Working..."); got != 1 {
		t.Errorf("Expected one static line, got %d", got)
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter("Idle", &buf)

	// Must not panic or block.
	s.Stop()
	s.Success("done")

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestSpinner_StopWithStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewWithWriter("Generating", &buf)
		s.Start()
		s.Success("Document ready")

		out := buf.String()
		if !strings.Contains(out, symbolSuccess) {
			t.Error("Expected success symbol")
		}
		if !strings.Contains(out, "Document ready") {
			t.Errorf("Expected final message, got %q", out)
		}
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewWithWriter("Generating", &buf)
		s.Start()
		s.Fail("Generation failed")

		out := buf.String()
		if !strings.Contains(out, symbolFailure) {
			t.Error("Expected failure symbol")
		}
	})
}

func TestSpinner_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	s := NewWithWriter("Working", &buf)

	if s.Elapsed() != 0 {
		t.Error("Expected zero elapsed before Start")
	}

	s.Start()
	time.Sleep(10 * time.Millisecond)
	if s.Elapsed() <= 0 {
		t.Error("Expected positive elapsed after Start")
	}
	s.Stop()
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1200 * time.Millisecond, "(1.2s)"},
		{59 * time.Second, "(59.0s)"},
		{90 * time.Second, "(1m 30s)"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
