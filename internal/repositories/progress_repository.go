package repositories

import (
	"context"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// FindProgress returns the progress row for (team, question), or nil when
// the team has never solved it.
func (r *ProgressRepository) FindProgress(ctx context.Context, teamID uint, questionID string) (*models.TeamProgress, error) {
	var progress models.TeamProgress
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND question_id = ?", teamID, questionID).
		Limit(1).
		Find(&progress)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get progress")
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &progress, nil
}

// MarkCompleted records a solve. The write is a single upsert that only
// touches a row which is not completed yet, so it reports false when some
// other writer got there first.
func (r *ProgressRepository) MarkCompleted(ctx context.Context, teamID uint, questionID string, solvedAt time.Time) (bool, error) {
	progress := models.TeamProgress{
		TeamID:      teamID,
		QuestionID:  questionID,
		IsCompleted: true,
		SolvedAt:    &solvedAt,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "team_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed": true,
			"solved_at":    solvedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: progress.TableName(), Name: "is_completed"}, Value: false},
		}},
	}).Create(&progress)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to save progress")
	}
	return result.RowsAffected > 0, nil
}

// CompletedQuestionIDs returns the ids of questions the team has completed
func (r *ProgressRepository) CompletedQuestionIDs(ctx context.Context, teamID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.TeamProgress{}).
		Where("team_id = ? AND is_completed = ?", teamID, true).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get completed questions")
	}
	return ids, nil
}

// ListCompleted returns every completed progress row
func (r *ProgressRepository) ListCompleted(ctx context.Context) ([]models.TeamProgress, error) {
	var rows []models.TeamProgress
	err := r.db.WithContext(ctx).
		Where("is_completed = ?", true).
		Order("team_id ASC, solved_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list progress")
	}
	return rows, nil
}
