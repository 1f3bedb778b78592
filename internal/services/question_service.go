package services

import (
	"context"
	"io"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/importer"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// QuestionView is a question as shown to teams. The answer is withheld.
type QuestionView struct {
	QuestionID          string `json:"question_id"`
	QuestionText        string `json:"question_text"`
	QuestionDescription string `json:"question_description"`
}

type AddQuestionInput struct {
	QuestionText        string `json:"question_text" validate:"notblank,max=255"`
	QuestionDescription string `json:"question_description"`
	Answer              string `json:"answer" validate:"notblank"`
}

// ImportResult summarizes a spreadsheet import
type ImportResult struct {
	Added   int                 `json:"added"`
	Skipped int                 `json:"skipped"`
	Errors  []importer.RowError `json:"-"`
}

type QuestionService struct {
	teamRepo     *repositories.TeamRepository
	questionRepo *repositories.QuestionRepository
	progressRepo *repositories.ProgressRepository
	validate     *requestValidator
}

func NewQuestionService(
	teamRepo *repositories.TeamRepository,
	questionRepo *repositories.QuestionRepository,
	progressRepo *repositories.ProgressRepository,
) *QuestionService {
	return &QuestionService{
		teamRepo:     teamRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		validate:     newRequestValidator(),
	}
}

// ListQuestions returns the catalog in store order
func (s *QuestionService) ListQuestions(ctx context.Context) ([]QuestionView, error) {
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return viewsOf(questions), nil
}

// UnsolvedQuestions returns the questions a team has not completed, ordered
// by label ordinal.
func (s *QuestionService) UnsolvedQuestions(ctx context.Context, teamName string) ([]QuestionView, error) {
	team, err := s.teamRepo.GetTeamByName(ctx, security.SanitizeText(teamName))
	if err != nil {
		return nil, err
	}

	solvedIDs, err := s.progressRepo.CompletedQuestionIDs(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	solved := make(map[string]bool, len(solvedIDs))
	for _, id := range solvedIDs {
		solved[id] = true
	}

	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	unsolved := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if !solved[q.ID] {
			unsolved = append(unsolved, q)
		}
	}
	models.SortQuestionsByLabel(unsolved)

	return viewsOf(unsolved), nil
}

// AddQuestion stores a new question with a fresh opaque id
func (s *QuestionService) AddQuestion(ctx context.Context, input AddQuestionInput) (*models.Question, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	question := &models.Question{
		Label:       input.QuestionText,
		Description: input.QuestionDescription,
		Answer:      input.Answer,
	}
	if err := s.questionRepo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}

	logger.Info("Question added", "question_id", question.ID, "label", question.Label)
	return question, nil
}

// ImportQuestions adds the questions of an .xlsx workbook. Labels that
// already exist are skipped so an import can be re-run.
func (s *QuestionService) ImportQuestions(ctx context.Context, r io.Reader) (*ImportResult, error) {
	questions, rowErrors, err := importer.ReadQuestions(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "Invalid question workbook")
	}

	result := &ImportResult{Errors: rowErrors}
	for i := range questions {
		q := questions[i]

		exists, err := s.questionRepo.LabelExists(ctx, q.Label)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			continue
		}

		if err := s.questionRepo.CreateQuestion(ctx, &q); err != nil {
			return result, err
		}
		result.Added++
	}

	for _, rowErr := range rowErrors {
		logger.Warn("Skipped question row", "error", rowErr.Error())
	}
	logger.Info("Questions imported", "added", result.Added, "skipped", result.Skipped, "invalid", len(rowErrors))
	return result, nil
}

func viewsOf(questions []models.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			QuestionID:          q.ID,
			QuestionText:        q.Label,
			QuestionDescription: q.Description,
		})
	}
	return views
}
