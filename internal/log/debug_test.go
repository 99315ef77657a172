package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetDebugLogger(t *testing.T) func() {
	t.Helper()

	writer.mu.Lock()
	prevFile := writer.file
	prevBuffer := append([]byte(nil), writer.buffer...)
	prevDiscard := writer.discard
	writer.file = nil
	writer.buffer = nil
	writer.discard = false
	writer.mu.Unlock()

	return func() {
		writer.mu.Lock()
		if writer.file != nil {
			_ = writer.file.Close()
		}
		writer.file = prevFile
		writer.buffer = prevBuffer
		writer.discard = prevDiscard
		writer.mu.Unlock()
	}
}

func TestBufferedUntilFileSet(t *testing.T) {
	restore := resetDebugLogger(t)
	t.Cleanup(restore)

	Printf("buffered message %d", 1)

	writer.mu.Lock()
	buffered := string(writer.buffer)
	writer.mu.Unlock()

	if !strings.Contains(buffered, "buffered message 1") {
		t.Fatalf("expected message in buffer, got %q", buffered)
	}

	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := SetFile(logPath); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	data, err := os.ReadFile(logPath) //nolint:gosec
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "buffered message 1") {
		t.Fatalf("expected buffered message flushed to file, got %q", string(data))
	}

	writer.mu.Lock()
	bufferLen := len(writer.buffer)
	writer.mu.Unlock()
	if bufferLen != 0 {
		t.Fatalf("expected buffer cleared after flush")
	}
}

func TestWritesGoToFileOnceSet(t *testing.T) {
	restore := resetDebugLogger(t)
	t.Cleanup(restore)

	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := SetFile(logPath); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Println("direct message")

	data, err := os.ReadFile(logPath) //nolint:gosec
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "direct message") {
		t.Fatalf("expected message in file, got %q", string(data))
	}
}

func TestEmptyPathDiscards(t *testing.T) {
	restore := resetDebugLogger(t)
	t.Cleanup(restore)

	Printf("about to be dropped")
	if err := SetFile(""); err != nil {
		t.Fatalf("SetFile(\"\"): %v", err)
	}

	Printf("also dropped")

	writer.mu.Lock()
	discard := writer.discard
	bufferLen := len(writer.buffer)
	writer.mu.Unlock()

	if !discard {
		t.Fatalf("expected discard mode after empty path")
	}
	if bufferLen != 0 {
		t.Fatalf("expected buffer cleared, got %d bytes", bufferLen)
	}
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	restore := resetDebugLogger(t)
	t.Cleanup(restore)

	unwritableDir := t.TempDir()
	if err := os.Chmod(unwritableDir, 0o500); err != nil { //nolint:gosec
		t.Fatalf("set directory permissions: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(unwritableDir, 0o700) //nolint:gosec
	})

	logPath := filepath.Join(unwritableDir, "debug.log")
	if err := SetFile(logPath); err == nil {
		t.Fatalf("expected SetFile to fail for %q", logPath)
	}

	writer.mu.Lock()
	discard := writer.discard
	bufferLen := len(writer.buffer)
	writer.mu.Unlock()

	if !discard {
		t.Fatalf("expected discard to be enabled after SetFile failure")
	}
	if bufferLen != 0 {
		t.Fatalf("expected buffer to be cleared after SetFile failure")
	}

	Printf("should be discarded")

	writer.mu.Lock()
	bufferLen = len(writer.buffer)
	writer.mu.Unlock()

	if bufferLen != 0 {
		t.Fatalf("expected buffer to remain empty after logging")
	}
}

func TestCloseWithoutFile(t *testing.T) {
	restore := resetDebugLogger(t)
	t.Cleanup(restore)

	if err := Close(); err != nil {
		t.Fatalf("Close without file: %v", err)
	}
}
