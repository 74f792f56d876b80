package exporter

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultFileMode fs.FileMode = 0o644

// csvFile writes CSV records into a temporary file next to path and
// only replaces path on Commit, so a failed export never leaves a
// truncated file behind.
//
// When path is a symlink the file it points to is replaced and the
// link is kept. An existing file keeps its permission bits.
type csvFile struct {
	path   string
	mode   fs.FileMode
	tmp    *os.File
	writer *csv.Writer
	done   bool
}

func createCSVFile(path string, comma rune) (*csvFile, error) {
	target, mode := resolveTarget(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	writer := csv.NewWriter(tmp)
	writer.Comma = comma

	return &csvFile{
		path:   target,
		mode:   mode,
		tmp:    tmp,
		writer: writer,
	}, nil
}

// resolveTarget returns the file a write to path lands on and the mode
// it should end up with.
func resolveTarget(path string) (string, fs.FileMode) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, defaultFileMode
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return target, defaultFileMode
	}
	return target, info.Mode().Perm()
}

// Write writes one record. The record slice may be reused afterwards.
func (f *csvFile) Write(record []string) error {
	if err := f.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Commit flushes the temporary file and renames it over path. It
// returns the size of the saved file.
func (f *csvFile) Commit() (int64, error) {
	f.writer.Flush()
	if err := f.writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := f.tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(f.tmp.Name(), f.mode); err != nil {
		return 0, fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	f.done = true

	info, err := os.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return info.Size(), nil
}

// Discard removes the temporary file unless Commit succeeded. It is
// safe to call more than once.
func (f *csvFile) Discard() {
	if f.done {
		return
	}
	f.done = true
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}
