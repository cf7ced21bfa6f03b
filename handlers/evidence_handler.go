package handlers

import (
	"net/http"

	"github.com/kmarzh/scrim-scoreboard/storage"
)

const maxEvidenceSize = 10 << 20 // 10MB

// EvidenceHandler accepts result screenshots and stores them in the evidence
// bucket. When no bucket is configured the endpoint reports the feature as
// unavailable; submissions still work without evidence.
type EvidenceHandler struct {
	uploader storage.FileUploader
}

func NewEvidenceHandler(uploader storage.FileUploader) *EvidenceHandler {
	return &EvidenceHandler{uploader: uploader}
}

func (h *EvidenceHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "evidence uploads are not configured")
		return
	}

	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEvidenceSize)
	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("evidence")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.EvidenceKey(tournamentID, actor.ID, header.Filename)
	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"evidence": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
