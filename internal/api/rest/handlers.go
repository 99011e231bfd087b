package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fortuna/gridiron/internal/scheduler"
	"github.com/fortuna/gridiron/internal/service"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/gorilla/mux"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db           *store.Database
	gameService  *service.GameService
	playService  *service.PlayService
	teamRepo     *repository.TeamRepository
	orchestrator *scheduler.Orchestrator
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, orchestrator *scheduler.Orchestrator) *Handler {
	return &Handler{
		db:           db,
		gameService:  service.NewGameService(db),
		playService:  service.NewPlayService(db),
		teamRepo:     repository.NewTeamRepository(db),
		orchestrator: orchestrator,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetPendingGames returns final games still waiting for play-by-play
func (h *Handler) GetPendingGames(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 25, 200)

	games, err := h.gameService.GetPendingGames(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch pending games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetWeekGames returns all games for a season week
func (h *Handler) GetWeekGames(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing 'season' parameter", err)
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing 'week' parameter", err)
		return
	}

	games, err := h.gameService.GetWeekGames(r.Context(), season, week)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch week games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGame returns a specific game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game", err)
		return
	}
	if game == nil {
		respondError(w, http.StatusNotFound, "Game not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetGamePlays returns a game's normalized play-by-play
func (h *Handler) GetGamePlays(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	plays, err := h.playService.GetGamePlays(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch plays", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"plays": plays,
		"count": len(plays),
	})
}

// GetScoringSummary returns only a game's scoring plays
func (h *Handler) GetScoringSummary(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	plays, err := h.playService.ScoringSummary(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch scoring summary", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"plays": plays,
		"count": len(plays),
	})
}

// GetGameSections returns a game's recorded box score stat sections
func (h *Handler) GetGameSections(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathGameID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game ID", err)
		return
	}

	sections, err := h.playService.GetGameSections(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stat sections", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sections": sections,
		"count":    len(sections),
	})
}

// GetTeams returns all active teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam returns a team by abbreviation
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	team, err := h.teamRepo.GetByAbbreviation(r.Context(), vars["abbreviation"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch team", err)
		return
	}
	if team == nil {
		respondError(w, http.StatusNotFound, "Team not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"team": team})
}

// GetSchedulerStatus returns the sweep scheduler's configuration
func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if h.orchestrator == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not running", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.orchestrator.GetStatus())
}

func pathGameID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["gameID"])
}

func intQuery(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= max {
		return v
	}
	return def
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
