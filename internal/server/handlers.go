package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"crypto-rush/internal/config"
	"crypto-rush/internal/game"
	"crypto-rush/internal/pricegen"
)

// ScoreStore is the leaderboard persistence the handlers need.
type ScoreStore interface {
	SaveScore(result game.Result) error
	TopScores(limit int) ([]game.LeaderboardEntry, error)
}

// Broadcaster pushes leaderboard updates to live subscribers.
type Broadcaster interface {
	Broadcast(v any)
}

// Handler serves the game API.
type Handler struct {
	store  ScoreStore
	gen    *pricegen.Generator
	cfg    *config.Config
	logger *zap.Logger
	hub    Broadcaster
}

// NewHandler wires the API handler.
func NewHandler(store ScoreStore, gen *pricegen.Generator, cfg *config.Config, logger *zap.Logger, hub Broadcaster) *Handler {
	return &Handler{
		store:  store,
		gen:    gen,
		cfg:    cfg,
		logger: logger,
		hub:    hub,
	}
}

// GetGameData generates a fresh session snapshot: one price series per
// configured asset, each exactly round_duration points long.
func (h *Handler) GetGameData(w http.ResponseWriter, r *http.Request) {
	data := h.gen.GameData(h.cfg.Game.Assets, h.cfg.Game.StartBalance, h.cfg.Game.RoundDuration)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// maxUsernameLen bounds submitted usernames.
const maxUsernameLen = 20

// SubmitScore validates a submitted result, computes the score, persists
// it, and broadcasts the refreshed top-10 to WebSocket subscribers.
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var result game.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.logger.Error("failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if result.Username == "" || len(result.Username) > maxUsernameLen {
		http.Error(w, "Invalid username", http.StatusBadRequest)
		return
	}

	result.Score = game.CalculateScore(
		result.FinalBalance,
		h.cfg.Game.StartBalance,
		result.TradesCount,
	)

	if err := h.store.SaveScore(result); err != nil {
		http.Error(w, "Failed to save score", http.StatusInternalServerError)
		return
	}

	if h.hub != nil {
		if top, err := h.store.TopScores(10); err == nil {
			h.hub.Broadcast(top)
		} else {
			h.logger.Error("failed to load top scores for broadcast", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"score":   result.Score,
	})
}

// GetLeaderboard returns the best scores, limit clamped to [1, 100] with a
// default of 10.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	scores, err := h.store.TopScores(limit)
	if err != nil {
		h.logger.Error("failed to get leaderboard", zap.Error(err))
		http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
		return
	}
	if scores == nil {
		scores = []game.LeaderboardEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scores)
}
