package handlers

import (
	"net/http"

	"github.com/kmarzh/scrim-scoreboard/services"
)

type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	entries := h.auditService.List(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"audit_log": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
