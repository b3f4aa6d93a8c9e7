package alog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalFunctions(t *testing.T) {
	// Save and restore global state
	defer Reset()

	var buf bytes.Buffer
	ReplaceGlobal(TestLogger(&buf))

	Debug("debug %s", "msg")
	Info("info %s", "msg")
	Warn("warn %s", "msg")
	Error("error %s", "msg")

	output := buf.String()

	if !strings.Contains(output, "[DEBUG] debug msg") {
		t.Errorf("expected debug in output")
	}
	if !strings.Contains(output, "[INFO] info msg") {
		t.Errorf("expected info in output")
	}
	if !strings.Contains(output, "[WARN] warn msg") {
		t.Errorf("expected warn in output")
	}
	if !strings.Contains(output, "[ERROR] error msg") {
		t.Errorf("expected error in output")
	}
}

func TestConfigure(t *testing.T) {
	defer Reset()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")

	err := Configure(LevelDebug, logPath)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	defer func() { _ = Close() }()

	Info("test message")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if !strings.Contains(string(content), "test message") {
		t.Errorf("expected message in log file, got: %s", content)
	}
}

func TestConfigureNoFile(t *testing.T) {
	defer Reset()

	if err := Configure(LevelInfo, ""); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
}

func TestDiscard(t *testing.T) {
	defer Reset()
	Discard()

	// These should not panic or produce output
	Debug("test")
	Info("test")
	Warn("test")
	Error("test")
}

func TestWriter(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	ReplaceGlobal(TestLogger(&buf))

	w := Writer(LevelInfo)
	_, err := w.Write([]byte("test from writer\n"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[INFO] test from writer") {
		t.Errorf("expected message from writer, got: %s", output)
	}
}

func TestReplaceGlobal(t *testing.T) {
	defer Reset()

	var buf bytes.Buffer
	replacement := TestLogger(&buf)
	old := ReplaceGlobal(replacement)
	if old == nil {
		t.Fatalf("ReplaceGlobal() returned nil previous logger")
	}

	Info("routed")
	if !strings.Contains(buf.String(), "routed") {
		t.Errorf("expected message on replacement logger, got: %s", buf.String())
	}
}
