package applog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(LevelInfo)
	SetCore(core)
	defer SetCore(nil)
	SetLevel(LevelInfo)

	Debugf("test", "dropped")
	Infof("test", "kept")
	Warnf("test", "kept too")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", logs.Len())
	}

	SetLevel(LevelError)
	defer SetLevel(LevelInfo)
	Warnf("test", "dropped now")
	if logs.Len() != 2 {
		t.Fatalf("warn should be dropped at error level, got %d records", logs.Len())
	}
	Errorf("test", "kept")
	if logs.Len() != 3 {
		t.Fatalf("error should pass, got %d records", logs.Len())
	}
}

func TestOwnerAndMessage(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	SetCore(core)
	defer SetCore(nil)
	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)

	Infof("registry.Store", "slot %q registered", "app/window")

	entries := logs.TakeAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(entries))
	}
	msg := entries[0].Message
	if !strings.Contains(msg, "registry.Store") {
		t.Errorf("message %q missing owner", msg)
	}
	if !strings.Contains(msg, `slot "app/window" registered`) {
		t.Errorf("message %q missing formatted text", msg)
	}
	if !strings.Contains(msg, "|:") {
		t.Errorf("message %q missing owner/message separator", msg)
	}
}

func TestLabelFunc(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	SetCore(core)
	defer SetCore(nil)
	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)

	SetLabelFunc(func() string { return "render" })
	defer SetLabelFunc(nil)

	Infof("app", "frame done")

	entries := logs.TakeAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Message, "@render") {
		t.Errorf("message %q missing goroutine label", entries[0].Message)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := SetFile(path); err != nil {
		t.Fatalf("SetFile failed: %v", err)
	}
	defer SetFile("")

	Infof("test", "first line")
	Warnf("test", "second line")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "[INFO]") {
		t.Errorf("log file missing level tag: %q", content)
	}
	if !strings.Contains(content, "[WARN]") {
		t.Errorf("log file missing warn tag: %q", content)
	}
	if !strings.Contains(content, "first line") || !strings.Contains(content, "second line") {
		t.Errorf("log file missing messages: %q", content)
	}
	if strings.Count(content, "\n") != 2 {
		t.Errorf("expected 2 lines, got %q", content)
	}

	// Append mode: a reopened file keeps earlier records.
	if err := SetFile(path); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	Infof("test", "third line")
	data, _ = os.ReadFile(path)
	if strings.Count(string(data), "\n") != 3 {
		t.Errorf("expected 3 lines after reopen, got %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseLevel(%q) error: %v", tt.in, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseLevel(%q) should fail", tt.in)
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	SetCore(core)
	defer SetCore(nil)
	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			for i := 0; i < 50; i++ {
				Infof("worker", "iteration %d", i)
			}
			done <- struct{}{}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	if logs.Len() != 200 {
		t.Fatalf("expected 200 records, got %d", logs.Len())
	}
}
