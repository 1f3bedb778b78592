package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/metrics"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

type SubmissionStatus string

const (
	StatusCorrect          SubmissionStatus = "correct"
	StatusIncorrect        SubmissionStatus = "incorrect"
	StatusAlreadyCompleted SubmissionStatus = "already_completed"
)

// Submission messages
const (
	MsgCorrect          = "Correct answer! Question marked as completed."
	MsgIncorrect        = "Incorrect answer."
	MsgAlreadyCompleted = "This team has already submitted the correct answer for this question."
)

type SubmissionResult struct {
	Status  SubmissionStatus
	Message string
	// Created is set when a correct answer produced the first progress row
	// for the pair rather than completing an existing one.
	Created bool
}

type AnswerService struct {
	teamRepo     *repositories.TeamRepository
	questionRepo *repositories.QuestionRepository
	progressRepo *repositories.ProgressRepository
	metrics      *metrics.Metrics

	locks *keyedMutex
	now   func() time.Time
}

func NewAnswerService(
	teamRepo *repositories.TeamRepository,
	questionRepo *repositories.QuestionRepository,
	progressRepo *repositories.ProgressRepository,
	m *metrics.Metrics,
) *AnswerService {
	return &AnswerService{
		teamRepo:     teamRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		metrics:      m,
		locks:        newKeyedMutex(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SubmitAnswer grades one answer. At most one submission per (team,
// question) is ever recorded as correct; later ones report
// StatusAlreadyCompleted whatever the candidate.
func (s *AnswerService) SubmitAnswer(ctx context.Context, teamName, questionID, answer string) (*SubmissionResult, error) {
	team, err := s.teamRepo.GetTeamByName(ctx, security.SanitizeText(teamName))
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(fmt.Sprintf("%d:%s", team.ID, question.ID))
	defer unlock()

	progress, err := s.progressRepo.FindProgress(ctx, team.ID, question.ID)
	if err != nil {
		return nil, err
	}
	if progress != nil && progress.IsCompleted {
		return s.result(StatusAlreadyCompleted, false), nil
	}

	if !question.IsCorrect(answer) {
		return s.result(StatusIncorrect, false), nil
	}

	applied, err := s.progressRepo.MarkCompleted(ctx, team.ID, question.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return s.result(StatusAlreadyCompleted, false), nil
	}

	logger.Info("Question solved", "team", team.Name, "question", question.Label)
	return s.result(StatusCorrect, progress == nil), nil
}

func (s *AnswerService) result(status SubmissionStatus, created bool) *SubmissionResult {
	s.metrics.ObserveSubmission(string(status))

	res := &SubmissionResult{Status: status, Created: created}
	switch status {
	case StatusCorrect:
		res.Message = MsgCorrect
	case StatusIncorrect:
		res.Message = MsgIncorrect
	case StatusAlreadyCompleted:
		res.Message = MsgAlreadyCompleted
	}
	return res
}
