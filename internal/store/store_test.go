package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/mfigueiredo/ponto/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "ponto.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(id string, created time.Time) domain.TimeEntry {
	return domain.TimeEntry{
		ID:        id,
		Date:      "27/11/2025",
		Hour:      "13:01",
		CreatedAt: created,
		FilePath:  "/photos/" + id + ".jpg",
	}
}

func TestCreateAndGetAll(t *testing.T) {
	s := newTestStore(t)

	older := time.Date(2025, 11, 27, 13, 1, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	if _, err := s.Create(testEntry("e1", older)); err != nil {
		t.Fatalf("Create e1: %v", err)
	}
	if _, err := s.Create(testEntry("e2", newer)); err != nil {
		t.Fatalf("Create e2: %v", err)
	}

	entries, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("GetAll returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != "e2" || entries[1].ID != "e1" {
		t.Errorf("GetAll order = [%s %s], want [e2 e1]", entries[0].ID, entries[1].ID)
	}
	if !entries[1].CreatedAt.Equal(older) {
		t.Errorf("created_at round trip = %v, want %v", entries[1].CreatedAt, older)
	}
}

func TestCreateEchoesEntry(t *testing.T) {
	s := newTestStore(t)

	e := testEntry("echo", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	got, err := s.Create(e)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got != e {
		t.Errorf("Create echo = %+v, want %+v", got, e)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	s := newTestStore(t)

	e := testEntry("dup", time.Now())
	if _, err := s.Create(e); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := s.Create(e)
	if !errors.Is(err, domain.ErrStoreWrite) {
		t.Errorf("duplicate Create error = %v, want ErrStoreWrite", err)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get missing error = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2025, 11, 27, 13, 1, 0, 0, time.UTC)
	if _, err := s.Create(testEntry("u1", created)); err != nil {
		t.Fatal(err)
	}

	date := "28/11/2025"
	hour := "07:45"
	if err := s.Update(store.UpdatePatch{ID: "u1", Date: &date, Hour: &hour}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	e, err := s.Get("u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Date != date || e.Hour != hour {
		t.Errorf("after Update got (%s, %s), want (%s, %s)", e.Date, e.Hour, date, hour)
	}
	if e.FilePath != "/photos/u1.jpg" {
		t.Errorf("file_path changed to %q, want untouched", e.FilePath)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("created_at changed to %v, want untouched", e.CreatedAt)
	}
}

func TestUpdateEmptyPatch(t *testing.T) {
	s := newTestStore(t)

	// No fields supplied: trivially succeeds, even for an unknown id.
	if err := s.Update(store.UpdatePatch{ID: "whatever"}); err != nil {
		t.Errorf("empty Update = %v, want nil", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newTestStore(t)

	date := "01/01/2025"
	err := s.Update(store.UpdatePatch{ID: "nope", Date: &date})
	if !errors.Is(err, domain.ErrStoreWrite) {
		t.Errorf("Update unknown id error = %v, want ErrStoreWrite", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Create(testEntry("d1", time.Now())); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries, err := s.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("GetAll after delete = %d entries, want 0", len(entries))
	}

	// Second delete of the same id is not an error.
	if err := s.Delete("d1"); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}

func TestDuplicateDateHourAllowed(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	if _, err := s.Create(testEntry("t1", now)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(testEntry("t2", now.Add(time.Second))); err != nil {
		t.Errorf("Create with duplicate (date, hour) = %v, want nil", err)
	}
}
