// Package entry composes the store, the validator and the photo manager
// into the save, delete and share workflows.
package entry

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/mfigueiredo/ponto/internal/photo"
	"github.com/mfigueiredo/ponto/internal/store"
	"github.com/mfigueiredo/ponto/internal/validate"
)

// ErrInProgress reports that another save or delete from the same trigger
// is still running. The duplicate submit should simply be dropped.
var ErrInProgress = errors.New("operation already in progress")

const cacheMaxAge = 24 * time.Hour

// Service owns the entry workflows. Construct once at startup with an
// already-open store; the service never closes it.
type Service struct {
	store    *store.Store
	photoDir string
	cacheDir string
	busy     atomic.Bool
}

func New(s *store.Store, photoDir, cacheDir string) *Service {
	return &Service{store: s, photoDir: photoDir, cacheDir: cacheDir}
}

// SaveRequest carries the user-confirmed fields for a new entry.
type SaveRequest struct {
	Date      string
	Hour      string
	PhotoPath string
}

// Save validates the request, copies the photo into managed storage under a
// fresh id, and persists the entry. A failed insert does not remove an
// already-copied photo: the orphan stays on disk until cleaned up manually.
func (s *Service) Save(req SaveRequest) (domain.TimeEntry, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return domain.TimeEntry{}, ErrInProgress
	}
	defer s.busy.Store(false)

	if !validate.Date(req.Date) {
		return domain.TimeEntry{}, fmt.Errorf("%w: date %q must be a valid DD/MM/YYYY date", domain.ErrValidation, req.Date)
	}
	if !validate.Hour(req.Hour) {
		return domain.TimeEntry{}, fmt.Errorf("%w: hour %q must be a valid HH:MM hour", domain.ErrValidation, req.Hour)
	}

	if err := photo.EnsureDir(s.photoDir); err != nil {
		return domain.TimeEntry{}, err
	}

	id := uuid.New().String()
	dest, err := photo.CopyInto(req.PhotoPath, s.photoDir, photoName(id, req.PhotoPath))
	if err != nil {
		return domain.TimeEntry{}, err
	}

	return s.store.Create(domain.TimeEntry{
		ID:        id,
		Date:      req.Date,
		Hour:      req.Hour,
		CreatedAt: time.Now(),
		FilePath:  dest,
	})
}

// photoName keeps the source extension when there is one.
func photoName(id, src string) string {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".jpg"
	}
	return id + ext
}

// Delete removes the entry's photo and then its record. The photo delete
// is best-effort: a failure is logged and the record is removed anyway.
// Deleting an id that no longer exists succeeds.
func (s *Service) Delete(id string) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer s.busy.Store(false)

	e, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := photo.Remove(e.FilePath); err != nil {
		log.Printf("warning: could not remove photo %s: %v", e.FilePath, err)
	}
	return s.store.Delete(id)
}

// Get retrieves a single entry.
func (s *Service) Get(id string) (domain.TimeEntry, error) {
	return s.store.Get(id)
}

// List returns all entries, most recent first. Read failures degrade to an
// empty list so browsing stays usable; lookups that must not mask a broken
// store use Entries instead.
func (s *Service) List() []domain.TimeEntry {
	entries, err := s.Entries()
	if err != nil {
		log.Printf("warning: could not read entries: %v", err)
		return nil
	}
	return entries
}

// Entries returns all entries, most recent first, surfacing read errors.
func (s *Service) Entries() ([]domain.TimeEntry, error) {
	return s.store.GetAll()
}

// UpdateFields rewrites an entry's date and/or hour after validation. Nil
// arguments leave the field untouched.
func (s *Service) UpdateFields(id string, date, hour *string) error {
	if date != nil && !validate.Date(*date) {
		return fmt.Errorf("%w: date %q must be a valid DD/MM/YYYY date", domain.ErrValidation, *date)
	}
	if hour != nil && !validate.Hour(*hour) {
		return fmt.Errorf("%w: hour %q must be a valid HH:MM hour", domain.ErrValidation, *hour)
	}
	return s.store.Update(store.UpdatePatch{ID: id, Date: date, Hour: hour})
}

// ShareInfo is what an external share sheet needs: the staged image copy
// and the message that accompanies it.
type ShareInfo struct {
	Message   string `json:"message"`
	CachePath string `json:"cache_path"`
}

// Share stages the entry's photo in the cache directory under a readable
// name and builds the share message. Stale cache copies from earlier
// shares are swept afterwards.
func (s *Service) Share(id string) (ShareInfo, error) {
	e, err := s.store.Get(id)
	if err != nil {
		return ShareInfo{}, err
	}

	cachePath, err := photo.CopyToCache(e.FilePath, s.cacheDir, photo.ShareName(e.Date, e.Hour))
	if err != nil {
		return ShareInfo{}, err
	}
	photo.SweepCache(s.cacheDir, cacheMaxAge)

	return ShareInfo{
		Message:   fmt.Sprintf("Meu registro de ponto de %s às %s", e.Date, e.Hour),
		CachePath: cachePath,
	}, nil
}

// GroupByDate groups entries by date. Group order follows the input (most
// recent activity first when fed from List); entries within a group are
// sorted by hour ascending.
func GroupByDate(entries []domain.TimeEntry) []domain.DayGroup {
	index := make(map[string]int)
	var groups []domain.DayGroup

	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			i = len(groups)
			index[e.Date] = i
			groups = append(groups, domain.DayGroup{Date: e.Date})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	for i := range groups {
		g := groups[i].Entries
		sort.SliceStable(g, func(a, b int) bool { return g[a].Hour < g[b].Hour })
	}
	return groups
}
