package repositories

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetQuestionByID retrieves a question by its opaque id
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&question)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "Question not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get question")
	}

	return &question, nil
}

// ListQuestions returns all questions in store order
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list questions")
	}
	return questions, nil
}

func (r *QuestionRepository) CountQuestions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count questions")
	}
	return count, nil
}

// CreateQuestion stores a new question and fills in its id
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		if err == gorm.ErrInvalidData {
			return errors.Wrap(err, errors.ErrCodeValidation, "Question label and answer are required")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create question")
	}
	return nil
}

// LabelExists reports whether a question with the given label is stored
func (r *QuestionRepository) LabelExists(ctx context.Context, label string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Where("label = ?", label).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check question label")
	}
	return count > 0, nil
}
