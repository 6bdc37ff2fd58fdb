package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSON(buf *bytes.Buffer) *Logger {
	return New(&Config{Level: "debug", Format: FormatJSON, Writer: buf}, "speakmate")
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if idx := strings.LastIndex(line, "\n"); idx >= 0 {
		line = line[idx+1:]
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "loud", Format: FormatJSON, Writer: &bytes.Buffer{}}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf)

	l.Info("transcribed", Fields("chars", 12, "provider", "openai"))

	m := decodeLine(t, &buf)
	if m["message"] != "transcribed" {
		t.Errorf("message = %v", m["message"])
	}
	if m["service"] != "speakmate" {
		t.Errorf("service = %v", m["service"])
	}
	if m["provider"] != "openai" {
		t.Errorf("provider = %v", m["provider"])
	}
	if m["chars"] != float64(12) {
		t.Errorf("chars = %v", m["chars"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf).WithComponent("coach").Warn("slow upstream")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "coach" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m["level"] != "warn" {
		t.Errorf("level = %v", m["level"])
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-1")
	newJSON(&buf).WithContext(ctx).Info("received")

	m := decodeLine(t, &buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v", m[FieldRequestID])
	}
}

func TestWithContextWithoutRequestID(t *testing.T) {
	l := NewDefault("svc")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when no request id is present")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf).WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("error = %v", m["error"])
	}
}

func TestFieldsOddArgs(t *testing.T) {
	m := Fields("a", 1, "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("Fields = %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("speak", errors.New("x"))
	if ef[FieldOperation] != "speak" || ef[FieldError] != "x" {
		t.Errorf("ErrorFields = %v", ef)
	}
	df := DurationFields("speak", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("DurationFields = %v", df)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json", Config{Format: FormatJSON}, false},
		{"bad level", Config{Level: "verbose"}, true},
		{"bad format", Config{Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	Init(&Config{ServiceName: "speakmate", Format: FormatJSON, Writer: &buf})
	Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected global log output, got %q", buf.String())
	}
}
