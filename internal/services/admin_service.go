package services

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/importer"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// WipeConfirmation must be sent verbatim to delete event data
const WipeConfirmation = "DELETE_ALL_DATA"

type AdminService struct {
	wipeRepo *repositories.WipeRepository
	ranking  *RankingService
}

func NewAdminService(wipeRepo *repositories.WipeRepository, ranking *RankingService) *AdminService {
	return &AdminService{
		wipeRepo: wipeRepo,
		ranking:  ranking,
	}
}

// WipeAll deletes teams, members, progress and hints. Questions survive.
func (s *AdminService) WipeAll(ctx context.Context, confirmation string) (*repositories.WipeCounts, error) {
	if confirmation != WipeConfirmation {
		return nil, errors.New(errors.ErrCodeConflict, `Send { "confirm": "DELETE_ALL_DATA" } in request body to proceed`)
	}

	counts, err := s.wipeRepo.DeleteEventData(ctx)
	if err != nil {
		return nil, err
	}

	logger.Warn("All event data deleted",
		"teams", counts.Teams,
		"users", counts.Users,
		"team_progress", counts.Progress,
		"hints", counts.Hints,
	)
	return counts, nil
}

// ExportLeaderboard renders the standings as an .xlsx workbook. The caller
// must close the returned file.
func (s *AdminService) ExportLeaderboard(ctx context.Context) (*excelize.File, error) {
	leaders, err := s.ranking.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	incomplete, err := s.ranking.IncompleteTeams(ctx)
	if err != nil {
		return nil, err
	}

	finishers := make([]importer.LeaderboardRow, 0, len(leaders))
	for _, e := range leaders {
		finishers = append(finishers, importer.LeaderboardRow{
			Rank:      e.Rank,
			TeamName:  e.TeamName,
			Completed: e.CompletedQuestions,
			SolvedAt:  e.SolvedAt,
			Members:   enrollNos(e.Members),
		})
	}

	unfinished := make([]importer.ProgressRow, 0, len(incomplete))
	for _, t := range incomplete {
		row := importer.ProgressRow{
			TeamName:   t.TeamName,
			Completed:  t.QuestionsCompleted,
			Remaining:  t.QuestionsRemaining,
			Percentage: t.ProgressPercentage,
			Members:    enrollNos(t.Members),
		}
		if t.LastSolvedQuestion != nil {
			row.LastSolved = *t.LastSolvedQuestion
		}
		unfinished = append(unfinished, row)
	}

	f, err := importer.WriteLeaderboard(finishers, unfinished)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to build leaderboard workbook")
	}
	return f, nil
}

func enrollNos(members []Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.EnrollNo)
	}
	return out
}
