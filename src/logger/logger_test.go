package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type fileConfig struct {
	level string
	file  string
}

func (c fileConfig) GetLogLevel() string { return c.level }
func (c fileConfig) GetLogFile() string  { return c.file }

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"DEBUG":    zapcore.DebugLevel,
		"info":     zapcore.InfoLevel,
		"Warning":  zapcore.WarnLevel,
		"WARN":     zapcore.WarnLevel,
		"ERROR":    zapcore.ErrorLevel,
		"CRITICAL": zapcore.FatalLevel,
		"":         zapcore.InfoLevel,
		"verbose":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log := NewLogger(fileConfig{level: "INFO", file: path}, "Component")
	if log.Name() != "Component" {
		t.Errorf("Name() = %q", log.Name())
	}
	log.Info("hello %s", "world")
	log.Debug("hidden at info level")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "hello world") || !strings.Contains(out, `"logger":"Component"`) {
		t.Errorf("unexpected log file contents: %s", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug entry written at info level")
	}
}
