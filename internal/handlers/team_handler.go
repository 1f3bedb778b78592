package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/services"
)

type memberResponse struct {
	ID       uint   `json:"id"`
	EnrollNo string `json:"EnrollNo"`
	Name     string `json:"name"`
}

type teamResponse struct {
	ID       uint             `json:"id"`
	TeamName string           `json:"team_name"`
	Locked   bool             `json:"locked"`
	Users    []memberResponse `json:"users"`
}

func newTeamResponse(team *models.Team) teamResponse {
	resp := teamResponse{
		ID:       team.ID,
		TeamName: team.Name,
		Locked:   team.Locked,
		Users:    make([]memberResponse, 0, len(team.Users)),
	}
	for _, u := range team.Users {
		resp.Users = append(resp.Users, memberResponse{ID: u.ID, EnrollNo: u.EnrollNo, Name: u.Name})
	}
	return resp
}

// RegisterTeam handles POST /register-team
func (h *HandlerManager) RegisterTeam(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input services.RegisterTeamInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	team, err := h.Teams.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTeamResponse(team))
}

type loginRequest struct {
	TeamName     string `json:"team_name"`
	TeamPassword string `json:"team_password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	TeamName string `json:"team_name"`
	Token    string `json:"token"`
}

// LoginTeam handles POST /login-team
func (h *HandlerManager) LoginTeam(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Teams.Login(r.Context(), req.TeamName, req.TeamPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		TeamName: res.TeamName,
		Token:    res.Token,
	})
}

type lockStateResponse struct {
	Message  string `json:"message,omitempty"`
	TeamName string `json:"team_name"`
	Locked   bool   `json:"locked"`
}

// TeamLocked handles POST /team-locked
func (h *HandlerManager) TeamLocked(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req teamNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	locked, err := h.Locks.IsLocked(r.Context(), req.TeamName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lockStateResponse{TeamName: req.TeamName, Locked: locked})
}
