package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default logger between tests
func resetLogger() {
	Init(Options{})
}

// --- Level Tests ---

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		logged    []string
		notLogged []string
	}{
		{
			name:      "default is info",
			logged:    []string{"info", "warn", "error"},
			notLogged: []string{"debug"},
		},
		{
			name:   "debug",
			opts:   Options{Debug: true},
			logged: []string{"debug", "info", "warn", "error"},
		},
		{
			name:      "quiet",
			opts:      Options{Quiet: true},
			logged:    []string{"error"},
			notLogged: []string{"debug", "info", "warn"},
		},
		{
			name:      "quiet overrides debug",
			opts:      Options{Debug: true, Quiet: true},
			logged:    []string{"error"},
			notLogged: []string{"debug", "info", "warn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			output := buf.String()
			for _, level := range tt.logged {
				if !strings.Contains(output, "msg-"+level) {
					t.Errorf("expected %s message to be logged", level)
				}
			}
			for _, level := range tt.notLogged {
				if strings.Contains(output, "msg-"+level) {
					t.Errorf("expected %s message to be suppressed", level)
				}
			}
		})
	}
}

// --- Format Tests ---

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("server started", "addr", ":8000")

	output := buf.String()
	for _, want := range []string{`"level":"INFO"`, `"msg":"server started"`, `"addr":":8000"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in JSON output, got %q", want, output)
		}
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("server started", "addr", ":8000")

	output := buf.String()
	for _, want := range []string{"level=INFO", `msg="server started"`, "addr=:8000"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in text output, got %q", want, output)
		}
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("component", "ratelimit").Info("sweep", "evicted", 3)

	output := buf.String()
	if !strings.Contains(output, "component=ratelimit") || !strings.Contains(output, "evicted=3") {
		t.Errorf("expected attributes in output, got %q", output)
	}
}

// --- Context Tests ---

func TestContextHelpers_UseDefaultWithoutLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "debug with context")
	InfoContext(ctx, "info with context")
	WarnContext(ctx, "warn with context")
	ErrorContext(ctx, "error with context")

	output := buf.String()
	for _, msg := range []string{"debug with context", "info with context", "warn with context", "error with context"} {
		if !strings.Contains(output, msg) {
			t.Errorf("expected %q in output", msg)
		}
	}
}

func TestNewContext_CarriesLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	ctx := NewContext(context.Background(), With("request_id", "abc123"))
	InfoContext(ctx, "handled")

	output := buf.String()
	if !strings.Contains(output, "handled") {
		t.Error("expected message in output")
	}
	if !strings.Contains(output, "request_id=abc123") {
		t.Errorf("expected request attribute in output, got %q", output)
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	resetLogger()
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext() without a logger should return Default()")
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewJSONHandler(buf, nil))
	Init(Options{Logger: custom, Debug: true})
	defer resetLogger()

	if Default() != custom {
		t.Fatal("Init() should install the custom logger as is")
	}

	Info("via custom")
	if !strings.Contains(buf.String(), `"msg":"via custom"`) {
		t.Errorf("expected JSON output from custom logger, got %q", buf.String())
	}
}
