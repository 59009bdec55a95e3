package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger
	Logger = zerolog.New(&buf)
	defer func() { Logger = orig }()

	ctx := WithRequestID(context.Background(), "req-42")
	Info(ctx).Msg("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("log line missing request id: %s", buf.String())
	}

	buf.Reset()
	Info(context.Background()).Msg("plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("global logger should not carry a request id: %s", buf.String())
	}
}
