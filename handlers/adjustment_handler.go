package handlers

import (
	"net/http"

	"github.com/kmarzh/scrim-scoreboard/services"
)

type AdjustmentHandler struct {
	adjustmentService services.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService services.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

func (h *AdjustmentHandler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var input services.ApplyAdjustmentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	adjustment, err := h.adjustmentService.Apply(r.Context(), input, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"adjustment": adjustment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdjustmentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	adjustments := h.adjustmentService.ListByTournament(r.Context(), tournamentID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"adjustments": adjustments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
