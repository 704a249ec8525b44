package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{" debug ", LogLevelDebug},
		{"TRACE", LogLevelTrace},
		{"", LogLevelInfo},
		{"loud", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if back := ParseLogLevel(tt.want.String()); back != tt.want {
			t.Errorf("%s does not parse back to itself", tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn)

	logger.Info("hidden %d", 1)
	logger.Debug("hidden")
	logger.Warn("shown %s", "cell")
	logger.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info/Debug should be filtered at WARN: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown cell") || !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("Expected warn and error lines, got %q", out)
	}
	if logger.GetLevel() != LogLevelWarn {
		t.Errorf("Expected level WARN, got %d", logger.GetLevel())
	}
}
