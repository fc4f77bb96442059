package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/mfigueiredo/ponto/internal/entry"
	"github.com/mfigueiredo/ponto/internal/extract"
)

// Server handles HTTP requests for the time entry API
type Server struct {
	svc  *entry.Service
	addr string
}

// New creates a new API server
func New(svc *entry.Service, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Entries
	mux.HandleFunc("GET /entries", s.listEntries)
	mux.HandleFunc("POST /entries", s.addEntry)
	mux.HandleFunc("GET /entries/{id}", s.getEntry)
	mux.HandleFunc("DELETE /entries/{id}", s.deleteEntry)
	mux.HandleFunc("POST /entries/{id}/share", s.shareEntry)

	// Grouped read side
	mux.HandleFunc("GET /days", s.listDays)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	fmt.Printf("Starting server on %s\n", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddEntryRequest is the request body for adding an entry. date and hour
// may be omitted when raw_text is supplied; the first date-shaped and
// hour-shaped substrings are used instead.
type AddEntryRequest struct {
	Date      string `json:"date,omitempty"`
	Hour      string `json:"hour,omitempty"`
	PhotoPath string `json:"photo_path"`
	RawText   string `json:"raw_text,omitempty"`
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.PhotoPath) == "" {
		writeError(w, http.StatusBadRequest, "photo_path is required")
		return
	}

	date := req.Date
	hour := req.Hour
	if date == "" {
		date, _ = extract.Date(req.RawText)
	}
	if hour == "" {
		hour, _ = extract.Hour(req.RawText)
	}

	saved, err := s.svc.Save(entry.SaveRequest{Date: date, Hour: hour, PhotoPath: req.PhotoPath})
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrInProgress):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrFileIO):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, ok, err := s.resolveID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	e, err := s.svc.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.resolveID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.svc.Delete(id); err != nil {
		if errors.Is(err, entry.ErrInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) shareEntry(w http.ResponseWriter, r *http.Request) {
	id, ok, err := s.resolveID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	info, err := s.svc.Share(id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, domain.ErrFileIO):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	entries := s.svc.List()
	if offset >= len(entries) {
		entries = nil
	} else {
		entries = entries[offset:]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	days := entry.GroupByDate(s.svc.List())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days": days,
	})
}

// resolveID supports id prefixes the way the CLI does. Unknown prefixes
// are returned unchanged so idempotent deletes still work. Unlike the list
// views, lookups surface a broken store instead of degrading to not-found.
func (s *Server) resolveID(prefix string) (string, bool, error) {
	entries, err := s.svc.Entries()
	if err != nil {
		return "", false, err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.ID, prefix) {
			return e.ID, true, nil
		}
	}
	return prefix, false, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
