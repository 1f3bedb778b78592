package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/services"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// GetTeams handles GET /get-teams, the public leaderboard
func (h *HandlerManager) GetTeams(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.Ranking.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type allTeamsResponse struct {
	TotalTeams int                     `json:"total_teams"`
	Teams      []services.TeamOverview `json:"teams"`
}

// AllTeams handles GET /all-teams
func (h *HandlerManager) AllTeams(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	teams, err := h.Ranking.AllTeams(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, allTeamsResponse{TotalTeams: len(teams), Teams: teams})
}

type incompleteTeamsResponse struct {
	TotalIncompleteTeams int                       `json:"total_incomplete_teams"`
	Teams                []services.IncompleteTeam `json:"teams"`
}

// IncompleteTeams handles GET /incomplete-teams
func (h *HandlerManager) IncompleteTeams(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	teams, err := h.Ranking.IncompleteTeams(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incompleteTeamsResponse{TotalIncompleteTeams: len(teams), Teams: teams})
}

// ExportLeaderboard handles GET /export/leaderboard.xlsx
func (h *HandlerManager) ExportLeaderboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	f, err := h.Admin.ExportLeaderboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("leaderboard-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := f.WriteTo(w); err != nil {
		logger.Warn("Failed to stream workbook", "error", err)
	}
}

type deleteAllRequest struct {
	Confirm string `json:"confirm"`
}

type deleteAllResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Deleted *repositories.WipeCounts `json:"deleted"`
	Note    string                   `json:"note"`
}

// DeleteAllData handles DELETE /delete-all-data
func (h *HandlerManager) DeleteAllData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req deleteAllRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	counts, err := h.Admin.WipeAll(r.Context(), req.Confirm)
	if errors.Is(err, errors.ErrCodeConflict) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Confirmation required",
			Message: errors.PublicMessage(err),
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteAllResponse{
		Success: true,
		Message: "All user data has been deleted",
		Deleted: counts,
		Note:    "Questions were preserved",
	})
}
