package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
)

type Member struct {
	EnrollNo string `json:"EnrollNo"`
	Name     string `json:"name"`
}

type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	TeamName           string    `json:"team_name"`
	CompletedQuestions int       `json:"completed_questions"`
	SolvedAt           time.Time `json:"solved_at"`
	Members            []Member  `json:"members"`
}

type IncompleteTeam struct {
	TeamName           string     `json:"team_name"`
	Members            []Member   `json:"members"`
	QuestionsCompleted int        `json:"questions_completed"`
	QuestionsRemaining int        `json:"questions_remaining"`
	LastSolvedQuestion *string    `json:"last_solved_question"`
	LastSolvedAt       *time.Time `json:"last_solved_at"`
	ProgressPercentage int        `json:"progress_percentage"`
}

type TeamOverview struct {
	TeamName           string   `json:"team_name"`
	Locked             bool     `json:"locked"`
	TotalMembers       int      `json:"total_members"`
	Members            []Member `json:"members"`
	QuestionsCompleted int      `json:"questions_completed"`
	Status             string   `json:"status"`
}

type RankingService struct {
	teamRepo     *repositories.TeamRepository
	questionRepo *repositories.QuestionRepository
	progressRepo *repositories.ProgressRepository
}

func NewRankingService(
	teamRepo *repositories.TeamRepository,
	questionRepo *repositories.QuestionRepository,
	progressRepo *repositories.ProgressRepository,
) *RankingService {
	return &RankingService{
		teamRepo:     teamRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
	}
}

// teamProgress is one team's completed questions
type teamProgress struct {
	team   models.Team
	solved map[string]time.Time
	last   *models.TeamProgress
}

type snapshot struct {
	questions map[string]models.Question
	final     *models.Question
	total     int
	teams     []teamProgress
}

func (s *RankingService) load(ctx context.Context) (*snapshot, error) {
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListTeamsWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		questions: make(map[string]models.Question, len(questions)),
		total:     len(questions),
	}
	for _, q := range questions {
		snap.questions[q.ID] = q
	}
	if final, ok := models.FinalQuestion(questions); ok {
		snap.final = final
	}

	byTeam := make(map[uint]*teamProgress, len(teams))
	snap.teams = make([]teamProgress, len(teams))
	for i, team := range teams {
		snap.teams[i] = teamProgress{team: team, solved: make(map[string]time.Time)}
		byTeam[team.ID] = &snap.teams[i]
	}

	for i := range rows {
		row := &rows[i]
		tp, ok := byTeam[row.TeamID]
		if !ok || row.SolvedAt == nil {
			continue
		}
		if _, ok := snap.questions[row.QuestionID]; !ok {
			continue
		}
		tp.solved[row.QuestionID] = *row.SolvedAt
		if tp.last == nil || row.SolvedAt.After(*tp.last.SolvedAt) {
			tp.last = row
		}
	}

	return snap, nil
}

// Leaderboard lists teams that completed every question, earliest finisher
// of the final question first.
func (s *RankingService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0)
	if snap.total == 0 || snap.final == nil {
		return entries, nil
	}

	for _, tp := range snap.teams {
		if len(tp.solved) != snap.total {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			TeamName:           tp.team.Name,
			CompletedQuestions: len(tp.solved),
			SolvedAt:           tp.solved[snap.final.ID],
			Members:            membersOf(tp.team),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SolvedAt.Before(entries[j].SolvedAt)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// IncompleteTeams lists teams that started but did not finish, most
// progress first.
func (s *RankingService) IncompleteTeams(ctx context.Context) ([]IncompleteTeam, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]IncompleteTeam, 0)
	for _, tp := range snap.teams {
		completed := len(tp.solved)
		if completed == 0 || completed >= snap.total {
			continue
		}

		entry := IncompleteTeam{
			TeamName:           tp.team.Name,
			Members:            membersOf(tp.team),
			QuestionsCompleted: completed,
			QuestionsRemaining: snap.total - completed,
			ProgressPercentage: int(math.Round(float64(completed) / float64(snap.total) * 100)),
		}
		if tp.last != nil {
			label := snap.questions[tp.last.QuestionID].Label
			entry.LastSolvedQuestion = &label
			entry.LastSolvedAt = tp.last.SolvedAt
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].QuestionsCompleted > result[j].QuestionsCompleted
	})

	return result, nil
}

// AllTeams returns the organizer overview of every team, ordered by name.
func (s *RankingService) AllTeams(ctx context.Context) ([]TeamOverview, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]TeamOverview, 0, len(snap.teams))
	for _, tp := range snap.teams {
		members := membersOf(tp.team)
		result = append(result, TeamOverview{
			TeamName:           tp.team.Name,
			Locked:             tp.team.Locked,
			TotalMembers:       len(members),
			Members:            members,
			QuestionsCompleted: len(tp.solved),
			Status:             models.TeamStatus(len(tp.solved), snap.total),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TeamName < result[j].TeamName
	})

	return result, nil
}

func membersOf(team models.Team) []Member {
	members := make([]Member, 0, len(team.Users))
	for _, u := range team.Users {
		members = append(members, Member{EnrollNo: u.EnrollNo, Name: u.Name})
	}
	return members
}
