package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// GetHints handles GET /get-hints
func (h *HandlerManager) GetHints(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hints, err := h.Hints.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hints)
}

type publishHintRequest struct {
	Hint     string `json:"hint"`
	HintText string `json:"hintText"`
}

// PublishHint handles POST /hints
func (h *HandlerManager) PublishHint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req publishHintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	text := req.Hint
	if text == "" {
		text = req.HintText
	}

	hint, err := h.Hints.Publish(r.Context(), text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hint)
}
