package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileWriter writes logs to a size-rotated file and gzips the rotated copies.
type FileWriter struct {
	mu          sync.Mutex
	dir         string
	filename    string
	maxSize     int64
	maxFiles    int
	currentFile *os.File
	currentSize int64
	now         func() time.Time
}

// NewFileWriter creates a file writer under dir. Files rotate once they would
// exceed maxSizeMB, and at most maxFiles rotated archives are kept.
func NewFileWriter(dir, filename string, maxSizeMB, maxFiles int) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}

	fw := &FileWriter{
		dir:      dir,
		filename: filename,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
		now:      time.Now,
	}
	if err := fw.openFile(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the location of the active log file.
func (fw *FileWriter) Path() string {
	return filepath.Join(fw.dir, fw.filename)
}

func (fw *FileWriter) openFile() error {
	f, err := os.OpenFile(fw.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	fw.currentFile = f
	fw.currentSize = info.Size()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.currentFile == nil {
		return 0, os.ErrClosed
	}
	if fw.currentSize > 0 && fw.currentSize+int64(len(p)) > fw.maxSize {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := fw.currentFile.Write(p)
	fw.currentSize += int64(n)
	return n, err
}

// rotate must be called with fw.mu held.
func (fw *FileWriter) rotate() error {
	if err := fw.currentFile.Close(); err != nil {
		return fmt.Errorf("close current file: %w", err)
	}

	timestamp := fw.now().Format("20060102-150405.000")
	rotated := filepath.Join(fw.dir, fmt.Sprintf("%s.%s", fw.filename, timestamp))
	if err := os.Rename(fw.Path(), rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	if err := compressFile(rotated); err != nil {
		fmt.Fprintf(os.Stderr, "compress rotated log %s: %v\n", rotated, err)
	}
	fw.cleanup()

	return fw.openFile()
}

func compressFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	gzPath := path + ".gz"
	out, err := os.Create(gzPath)
	if err != nil {
		return err
	}

	gzWriter := gzip.NewWriter(out)
	if _, err := io.Copy(gzWriter, in); err != nil {
		gzWriter.Close()
		out.Close()
		os.Remove(gzPath)
		return err
	}
	if err := gzWriter.Close(); err != nil {
		out.Close()
		os.Remove(gzPath)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

func (fw *FileWriter) cleanup() {
	matches, err := filepath.Glob(filepath.Join(fw.dir, fw.filename+".*.gz"))
	if err != nil || len(matches) <= fw.maxFiles {
		return
	}
	// Rotation timestamps sort lexically.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-fw.maxFiles] {
		os.Remove(path)
	}
}

// Close closes the file writer.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.currentFile == nil {
		return nil
	}
	err := fw.currentFile.Close()
	fw.currentFile = nil
	return err
}
