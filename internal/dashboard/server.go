package dashboard

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/denhq/den/internal/logging"
)

// apiMaxContent truncates pane content in API responses.
const apiMaxContent = 500

// Server exposes the dashboard page and its JSON API.
type Server struct {
	tracker *Tracker

	// DNSSuffix is the tailnet MagicDNS suffix, empty when unavailable.
	DNSSuffix string
}

// NewServer creates a dashboard Server over the tracker.
func NewServer(tracker *Tracker, dnsSuffix string) *Server {
	return &Server{tracker: tracker, DNSSuffix: dnsSuffix}
}

// Handler returns the HTTP routes: the dashboard page on /, session data on
// /api/containers, 404 for everything else.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/api/containers", s.handleContainers)
	return r
}

// refresh polls before rendering so every page load shows current state.
// Poll failures keep the previous snapshot.
func (s *Server) refresh(r *http.Request) []ContainerState {
	if err := s.tracker.Poll(r.Context()); err != nil {
		logging.Warn("dashboard poll failed", "error", err)
	}
	return s.tracker.Snapshot()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	states := s.refresh(r)
	now := s.tracker.Now()

	data := page{Tiles: make([]tile, 0, len(states))}
	for _, state := range states {
		data.Tiles = append(data.Tiles, tile{
			Name:    state.Name,
			URL:     sessionURL(state, s.DNSSuffix),
			TimeAgo: formatTimeAgo(now, state.LastChange),
			Content: state.PaneContent,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.Warn("dashboard render failed", "error", err)
	}
}

type containerJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LastChange  float64 `json:"lastChange"`
	ExposedPort int     `json:"exposedPort,omitempty"`
	Content     string  `json:"content"`
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (s *Server) handleContainers(w http.ResponseWriter, r *http.Request) {
	states := s.refresh(r)

	data := make([]containerJSON, 0, len(states))
	for _, state := range states {
		content := truncate(state.PaneContent, apiMaxContent)
		data = append(data, containerJSON{
			ID:          state.ID,
			Name:        state.Name,
			LastChange:  float64(state.LastChange.UnixMilli()) / 1000,
			ExposedPort: state.TerminalPort,
			Content:     content,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("dashboard encode failed", "error", err)
	}
}
