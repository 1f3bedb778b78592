package handlers

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func lockWord(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

// ToggleTeamLock handles POST /toggle-team-lock
func (h *HandlerManager) ToggleTeamLock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req teamNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	locked, err := h.Locks.ToggleLock(r.Context(), req.TeamName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lockStateResponse{
		Message:  fmt.Sprintf("Team %s has been %s.", req.TeamName, lockWord(locked)),
		TeamName: req.TeamName,
		Locked:   locked,
	})
}

// SetTeamLock returns the handler for POST /lock-team and /unlock-team
func (h *HandlerManager) SetTeamLock(locked bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req teamNameRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, r, err)
			return
		}

		if err := h.Locks.SetLock(r.Context(), req.TeamName, locked); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, lockStateResponse{
			Message:  fmt.Sprintf("Team %s has been %s.", req.TeamName, lockWord(locked)),
			TeamName: req.TeamName,
			Locked:   locked,
		})
	}
}

type allLocksResponse struct {
	Message  string `json:"message"`
	Affected int64  `json:"affected"`
}

// SetAllLocks returns the handler for POST /lock-all-teams and
// /unlock-all-teams
func (h *HandlerManager) SetAllLocks(locked bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		affected, err := h.Locks.SetAllLocks(r.Context(), locked)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, allLocksResponse{
			Message:  fmt.Sprintf("All teams %s successfully.", lockWord(locked)),
			Affected: affected,
		})
	}
}
