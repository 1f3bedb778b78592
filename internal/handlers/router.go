package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/middleware"
)

// NewRouter wires every endpoint onto an httprouter instance. Organizer
// routes require an organizer token when ORGANIZER_AUTH is enabled, answer
// and question routes require the login token when TEAM_AUTH is enabled.
func NewRouter(h *HandlerManager) http.Handler {
	r := httprouter.New()

	public := func(route string, handle httprouter.Handle) httprouter.Handle {
		return middleware.Observe(route, h.Metrics, middleware.LimitIP(h.Limiter, handle))
	}
	team := func(route string, handle httprouter.Handle) httprouter.Handle {
		return public(route, middleware.RequireTeam(h.Config.TeamAuth, h.Config.JWTSecret, handle))
	}
	organizer := func(route string, handle httprouter.Handle) httprouter.Handle {
		return middleware.Observe(route, h.Metrics,
			middleware.RequireOrganizer(h.Config.OrganizerAuth, h.Config.JWTSecret, handle))
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", h.MetricsHandler)
	r.GET("/qr", h.QRCode)
	r.GET("/ws", h.ServeWS)

	// Teams
	r.POST("/register-team", public("/register-team", h.RegisterTeam))
	r.POST("/login-team", public("/login-team", h.LoginTeam))
	r.POST("/team-locked", public("/team-locked", h.TeamLocked))

	// Quiz
	r.POST("/submit-answer", team("/submit-answer", h.SubmitAnswer))
	r.GET("/get-questions", public("/get-questions", h.GetQuestions))
	r.POST("/unsolved-questions", team("/unsolved-questions", h.UnsolvedQuestions))
	r.GET("/get-hints", public("/get-hints", h.GetHints))
	r.GET("/get-teams", public("/get-teams", h.GetTeams))

	// Organizer
	r.POST("/add-question", organizer("/add-question", h.AddQuestion))
	r.POST("/import-questions", organizer("/import-questions", h.ImportQuestions))
	r.POST("/toggle-team-lock", organizer("/toggle-team-lock", h.ToggleTeamLock))
	r.POST("/lock-team", organizer("/lock-team", h.SetTeamLock(true)))
	r.POST("/unlock-team", organizer("/unlock-team", h.SetTeamLock(false)))
	r.POST("/lock-all-teams", organizer("/lock-all-teams", h.SetAllLocks(true)))
	r.POST("/unlock-all-teams", organizer("/unlock-all-teams", h.SetAllLocks(false)))
	r.POST("/hints", organizer("/hints", h.PublishHint))
	r.GET("/all-teams", organizer("/all-teams", h.AllTeams))
	r.GET("/incomplete-teams", organizer("/incomplete-teams", h.IncompleteTeams))
	r.GET("/export/leaderboard.xlsx", organizer("/export/leaderboard.xlsx", h.ExportLeaderboard))
	r.DELETE("/delete-all-data", organizer("/delete-all-data", h.DeleteAllData))

	return middleware.Recover(middleware.CORS(h.Config.AllowedOrigin, r))
}
