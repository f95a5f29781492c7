package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/xwm/internal/config"
	"github.com/1broseidon/xwm/internal/ipc"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogHandlerJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warning"

	var buf bytes.Buffer
	logger := slog.New(newLogHandler(cfg, &buf))
	logger.Info("dropped")
	logger.Warn("kept", "window", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["window"] != float64(7) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestOpenLogOutputAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xwm.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, closeFn, err := openLogOutput(path)
	if err != nil {
		t.Fatalf("openLogOutput: %v", err)
	}
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatal(err)
	}
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old\nnew\n" {
		t.Errorf("log file = %q, want %q", data, "old\nnew\n")
	}
}

func TestOpenLogOutputDefaultsToStderr(t *testing.T) {
	w, closeFn, err := openLogOutput("")
	if err != nil {
		t.Fatalf("openLogOutput: %v", err)
	}
	if w != os.Stderr {
		t.Error("expected stderr")
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestWriteWindowsTable(t *testing.T) {
	var buf bytes.Buffer
	writeWindowsTable(&buf, []ipc.WindowInfo{
		{ID: 0x400001, Managed: true, Mapped: true, X: 10, Y: 20, Width: 640, Height: 480, Class: "xterm", Title: "shell"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"0x00400001", "640x480+10+20", "xterm", "shell"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 1}, "file:/c.yaml:3:1"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("border_width: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("border_width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate good rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
	if rc := runConfig([]string{"bogus"}); rc != 2 {
		t.Fatalf("unknown subcommand rc=%d, want 2", rc)
	}
}

func TestClientCommandsWithoutServer(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if rc := runStatus([]string{"--display", ":91"}); rc != 1 {
		t.Fatalf("status rc=%d, want 1", rc)
	}
	if rc := runQuit([]string{"--display", ":91"}); rc != 1 {
		t.Fatalf("quit rc=%d, want 1", rc)
	}
	if rc := runStatus([]string{"extra"}); rc != 2 {
		t.Fatalf("status with args rc=%d, want 2", rc)
	}
	if rc := runTUI([]string{"extra"}); rc != 2 {
		t.Fatalf("tui with args rc=%d, want 2", rc)
	}
}
