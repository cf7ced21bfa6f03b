package handlers

import (
	"net/http"

	"github.com/kmarzh/scrim-scoreboard/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetHandler serves the current ranked view. For completed tournaments this
// is the frozen snapshot; otherwise a fresh full recomputation.
func (h *LeaderboardHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.leaderboardService.Compute(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
