package repositories

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"gorm.io/gorm"
)

type HintRepository struct {
	db *gorm.DB
}

func NewHintRepository(db *gorm.DB) *HintRepository {
	return &HintRepository{db: db}
}

func (r *HintRepository) CreateHint(ctx context.Context, hint *models.Hint) error {
	if err := r.db.WithContext(ctx).Create(hint).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save hint")
	}
	return nil
}

// ListHints returns hints in the order they were published
func (r *HintRepository) ListHints(ctx context.Context) ([]models.Hint, error) {
	var hints []models.Hint
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&hints).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list hints")
	}
	return hints, nil
}
