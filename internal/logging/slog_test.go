package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return record
}

func TestSlogLogger_InfoWritesJSON(t *testing.T) {
	logger, buf := newBufferLogger()

	logger.Info(context.Background(), "server started", "addr", ":5000")

	record := decodeLine(t, buf)
	if record["msg"] != "server started" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["addr"] != ":5000" {
		t.Fatalf("expected addr attribute, got %v", record["addr"])
	}
}

func TestSlogLogger_WithAddsAttributes(t *testing.T) {
	logger, buf := newBufferLogger()

	child := logger.With("module", "http_server")
	child.Error(context.Background(), "boom")

	record := decodeLine(t, buf)
	if record["module"] != "http_server" {
		t.Fatalf("expected module attribute from With, got %v", record["module"])
	}
	if record["level"] != "ERROR" {
		t.Fatalf("expected ERROR level, got %v", record["level"])
	}
}
