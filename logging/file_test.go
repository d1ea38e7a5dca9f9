package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileWriterRotatesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(dir, "ui.log", 1, 2)
	if err != nil {
		t.Fatalf("new file writer: %v", err)
	}
	defer fw.Close()
	fw.maxSize = 16

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fw.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for i := 0; i < 4; i++ {
		if _, err := fw.Write([]byte("0123456789\n")); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	archives, err := filepath.Glob(filepath.Join(dir, "ui.log.*.gz"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(archives) != 2 {
		t.Fatalf("expected 2 archives after cleanup, got %v", archives)
	}
	data, err := os.ReadFile(fw.Path())
	if err != nil {
		t.Fatalf("read active log: %v", err)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("expected one line in active log, got %q", data)
	}
}

func TestFileWriterClosedWrite(t *testing.T) {
	fw, err := NewFileWriter(t.TempDir(), "ui.log", 1, 1)
	if err != nil {
		t.Fatalf("new file writer: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := fw.Write([]byte("x")); err == nil {
		t.Fatal("expected error writing to closed writer")
	}
}
