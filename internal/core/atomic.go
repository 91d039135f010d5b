package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes a file through write and only then moves it into
// place. The data goes to a temp file in the same directory which is renamed
// over path once complete, so readers see the old file or the new one, never
// a partial one.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", base, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close() // May already be closed before rename
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return fmt.Errorf("write %s: %w", base, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", base, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", base, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", base, err)
	}

	// CreateTemp uses 0600; backups are ordinary files
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", base, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", base, err)
	}
	return nil
}
