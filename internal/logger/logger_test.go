package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	For("upload").Info("hidden")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Upload")

	if got := buf.String(); got != "\n=== Upload ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestInfoAndWarn(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("info message %d", 42)
	Warn("warning message")

	want := "[INFO] info message 42\n[WARN] warning message\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestFor_PrefixesComponent(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	log := For("chat")
	log.Debug("sending %q", "hi")
	log.Info("reply received")
	log.Warn("completion failed: %v", "timeout")

	want := "[DEBUG] chat: sending \"hi\"\n" +
		"[INFO] chat: reply received\n" +
		"[WARN] chat: completion failed: timeout\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output: %q", got)
	}
	if log.Component() != "chat" {
		t.Errorf("unexpected component: %q", log.Component())
	}
}

func TestZeroLogger_NoPrefix(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	var log Logger
	log.Info("plain")

	if got := buf.String(); got != "[INFO] plain\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			For("worker").Debug("concurrent %d", i)
			IsVerbose()
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "[DEBUG] worker: concurrent ") {
			t.Errorf("interleaved line: %q", l)
		}
	}
	if Output() != &buf {
		t.Error("expected Output to return the configured writer")
	}
}
