package handlers

import (
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/metrics"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/middleware"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/services"
)

// Dependencies groups what the HTTP layer needs from the rest of the server.
type Dependencies struct {
	Teams     *services.TeamService
	Questions *services.QuestionService
	Answers   *services.AnswerService
	Locks     *services.LockService
	Ranking   *services.RankingService
	Hints     *services.HintService
	Admin     *services.AdminService
	Hub       *hub.Hub
	Limiter   *middleware.RateLimiter
	Metrics   *metrics.Metrics
}

type HandlerManager struct {
	Config    *config.Config
	Teams     *services.TeamService
	Questions *services.QuestionService
	Answers   *services.AnswerService
	Locks     *services.LockService
	Ranking   *services.RankingService
	Hints     *services.HintService
	Admin     *services.AdminService
	Hub       *hub.Hub
	Limiter   *middleware.RateLimiter
	Metrics   *metrics.Metrics
}

func NewHandlerManager(cfg *config.Config, deps Dependencies) *HandlerManager {
	return &HandlerManager{
		Config:    cfg,
		Teams:     deps.Teams,
		Questions: deps.Questions,
		Answers:   deps.Answers,
		Locks:     deps.Locks,
		Ranking:   deps.Ranking,
		Hints:     deps.Hints,
		Admin:     deps.Admin,
		Hub:       deps.Hub,
		Limiter:   deps.Limiter,
		Metrics:   deps.Metrics,
	}
}
