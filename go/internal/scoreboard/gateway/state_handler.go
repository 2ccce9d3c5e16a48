package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scorecast/go/internal/models"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/feed"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/view"
)

// MatchStateResponse is the JSON form of the current snapshot
type MatchStateResponse struct {
	Origin   feed.Origin        `json:"origin"`
	Revision uint64             `json:"revision"`
	LoadedAt time.Time          `json:"loaded_at"`
	Match    *models.MatchState `json:"match"`
}

// ClockResponse is the JSON form of the clock
type ClockResponse struct {
	Clock string    `json:"clock"`
	Time  time.Time `json:"time"`
}

// StateHandler handles HTTP requests for the page and the current match state
type StateHandler struct {
	stateProvider StateProvider
	renderer      *view.Renderer
}

// NewStateHandler creates a new state handler
func NewStateHandler(provider StateProvider, renderer *view.Renderer) *StateHandler {
	return &StateHandler{
		stateProvider: provider,
		renderer:      renderer,
	}
}

// HandlePage handles GET /
func (h *StateHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowGet(w, r) {
		return
	}

	snap := h.stateProvider.MatchSnapshot()
	var match *models.MatchState
	if snap != nil {
		match = snap.Match
	}

	page := h.renderer.NewPage(match, h.stateProvider.ClockTime())
	if snap != nil {
		page.Origin = string(snap.Origin)
		page.Revision = snap.Revision
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.RenderPage(w, page); err != nil {
		log.Error().Err(err).Msg("failed to render scoreboard page")
	}
}

// HandleGetMatchState handles GET /api/match/state
func (h *StateHandler) HandleGetMatchState(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	snap := h.stateProvider.MatchSnapshot()
	if snap == nil {
		http.Error(w, "Match state not loaded", http.StatusServiceUnavailable)
		return
	}

	resp := MatchStateResponse{
		Origin:   snap.Origin,
		Revision: snap.Revision,
		LoadedAt: snap.LoadedAt,
		Match:    snap.Match,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode match state response")
	}
}

// HandleGetBoard handles GET /api/match/board
func (h *StateHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	snap := h.stateProvider.MatchSnapshot()
	if snap == nil {
		http.Error(w, "Match state not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Scoreboard-Revision", strconv.FormatUint(snap.Revision, 10))
	if err := h.renderer.RenderBoard(w, snap.Match); err != nil {
		log.Error().Err(err).Msg("failed to render board")
	}
}

// HandleGetClock handles GET /api/clock
func (h *StateHandler) HandleGetClock(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	now := h.stateProvider.ClockTime()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ClockResponse{
		Clock: h.renderer.FormatClock(now),
		Time:  now,
	}); err != nil {
		log.Error().Err(err).Msg("failed to encode clock response")
	}
}

// RegisterStateRoutes registers the page and state routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.HandlePage)
	mux.HandleFunc("/api/match/state", h.HandleGetMatchState)
	mux.HandleFunc("/api/match/board", h.HandleGetBoard)
	mux.HandleFunc("/api/clock", h.HandleGetClock)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
