// Package photo owns the photo file lifecycle: copy-in at save time,
// delete on entry deletion, and the share cache.
package photo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mfigueiredo/ponto/internal/domain"
)

// EnsureDir creates the content directory if it is absent. Safe to call
// repeatedly.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %w", domain.ErrFileIO, path, err)
	}
	return nil
}

// CopyInto copies the captured photo at src into destDir under name and
// returns the destination path. The source must exist.
func CopyInto(src, destDir, name string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("%w: open source %s: %w", domain.ErrFileIO, src, err)
	}
	defer in.Close()

	dest := filepath.Join(destDir, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrFileIO, dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("%w: copy to %s: %w", domain.ErrFileIO, dest, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("%w: close %s: %w", domain.ErrFileIO, dest, err)
	}
	return dest, nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %w", domain.ErrFileIO, path, err)
	}
	return nil
}

// ShareName builds the readable cache file name for sharing an entry's
// photo, e.g. ponto_27-11-2025_13-01.jpg.
func ShareName(date, hour string) string {
	d := strings.ReplaceAll(date, "/", "-")
	h := strings.ReplaceAll(hour, ":", "-")
	return fmt.Sprintf("ponto_%s_%s.jpg", d, h)
}

// CopyToCache stages a photo in the share cache and returns the cache path.
func CopyToCache(src, cacheDir, name string) (string, error) {
	if err := EnsureDir(cacheDir); err != nil {
		return "", err
	}
	return CopyInto(src, cacheDir, name)
}

// SweepCache removes share copies older than maxAge. Best-effort: entries
// that cannot be inspected or removed are skipped.
func SweepCache(cacheDir string, maxAge time.Duration) {
	files, err := os.ReadDir(cacheDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, f := range files {
		if f.IsDir() || !strings.HasPrefix(f.Name(), "ponto_") {
			continue
		}
		info, err := f.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(cacheDir, f.Name()))
	}
}
