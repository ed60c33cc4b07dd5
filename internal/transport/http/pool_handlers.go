package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/engine"
)

// PoolHandlers serves the candidate pools and generated problem sets that
// clients use to render setup screens and practice modes.
type PoolHandlers struct {
	service *engine.Service
}

func NewPoolHandlers(service *engine.Service) *PoolHandlers {
	return &PoolHandlers{service: service}
}

// Countries handles GET /api/countries?count=N.
func (h *PoolHandlers) Countries(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 10)
	countries, err := h.service.Countries(r.Context(), count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"countries": countries})
}

// States handles GET /api/states?country=USA.
func (h *PoolHandlers) States(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		country = "USA"
	}
	states, err := h.service.States(r.Context(), country)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"states": states})
}

// Problems handles GET /api/problems?difficulty=easy&count=10.
func (h *PoolHandlers) Problems(w http.ResponseWriter, r *http.Request) {
	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = domain.DifficultyEasy
	}
	count := queryInt(r, "count", 10)
	problems, err := h.service.Problems(count, difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"problems": problems,
		"metadata": map[string]interface{}{
			"difficulty":    difficulty,
			"totalProblems": len(problems),
		},
	})
}

// MatchRound handles GET /api/quiz/countries-capitals?pairs=6.
func (h *PoolHandlers) MatchRound(w http.ResponseWriter, r *http.Request) {
	pairs := queryInt(r, "pairs", 6)
	questions, err := h.service.MatchRound(r.Context(), pairs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"questions": questions})
}

// Stats handles GET /api/stats for the authenticated player.
func (h *PoolHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidSettings):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrPoolUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrProfileNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
