package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

// writeError maps err to its HTTP status. Internal failures are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.PublicMessage(err)})
}

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(err, errors.ErrCodeValidation, "Invalid request body")
	}
	return nil
}

// teamNameRequest is the body of endpoints addressing a single team
type teamNameRequest struct {
	TeamName string `json:"team_name"`
}

func (req teamNameRequest) validate() error {
	if req.TeamName == "" {
		return errors.New(errors.ErrCodeValidation, "team_name is required")
	}
	return nil
}
