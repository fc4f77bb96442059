package photo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/mfigueiredo/ponto/internal/photo"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "photos")
	if err := photo.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := photo.EnsureDir(dir); err != nil {
		t.Errorf("second EnsureDir: %v", err)
	}
}

func TestCopyInto(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "capture.jpg")
	writeFile(t, src, "jpeg bytes")

	dest, err := photo.CopyInto(src, base, "abc.jpg")
	if err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if dest != filepath.Join(base, "abc.jpg") {
		t.Errorf("dest = %q, want %q", dest, filepath.Join(base, "abc.jpg"))
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("copied content = %q, want %q", data, "jpeg bytes")
	}
}

func TestCopyIntoMissingSource(t *testing.T) {
	base := t.TempDir()
	_, err := photo.CopyInto(filepath.Join(base, "nope.jpg"), base, "x.jpg")
	if !errors.Is(err, domain.ErrFileIO) {
		t.Errorf("CopyInto missing source error = %v, want ErrFileIO", err)
	}
}

func TestCopyIntoCleansUpPartialFile(t *testing.T) {
	base := t.TempDir()

	// A directory opens fine but fails on read, aborting the copy midway.
	srcDir := filepath.Join(base, "srcdir")
	if err := os.Mkdir(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := photo.CopyInto(srcDir, base, "partial.jpg")
	if !errors.Is(err, domain.ErrFileIO) {
		t.Fatalf("CopyInto from directory = %v, want ErrFileIO", err)
	}
	if _, err := os.Stat(filepath.Join(base, "partial.jpg")); !os.IsNotExist(err) {
		t.Error("partial destination left behind after failed copy")
	}
}

func TestRemoveMissing(t *testing.T) {
	if err := photo.Remove(filepath.Join(t.TempDir(), "gone.jpg")); err != nil {
		t.Errorf("Remove missing file = %v, want nil", err)
	}
}

func TestRemove(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "p.jpg")
	writeFile(t, path, "x")

	if err := photo.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
}

func TestShareName(t *testing.T) {
	got := photo.ShareName("27/11/2025", "13:01")
	if got != "ponto_27-11-2025_13-01.jpg" {
		t.Errorf("ShareName = %q, want %q", got, "ponto_27-11-2025_13-01.jpg")
	}
}

func TestSweepCache(t *testing.T) {
	cache := t.TempDir()

	old := filepath.Join(cache, "ponto_01-01-2025_08-00.jpg")
	fresh := filepath.Join(cache, "ponto_27-11-2025_13-01.jpg")
	other := filepath.Join(cache, "unrelated.txt")
	writeFile(t, old, "x")
	writeFile(t, fresh, "x")
	writeFile(t, other, "x")

	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatal(err)
	}

	photo.SweepCache(cache, 24*time.Hour)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale share copy not swept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh share copy swept")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-share file swept")
	}
}
