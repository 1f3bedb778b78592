package repositories

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"gorm.io/gorm"
)

// WipeCounts reports how many rows a wipe removed per table
type WipeCounts struct {
	Progress int64 `json:"team_progress"`
	Users    int64 `json:"users"`
	Teams    int64 `json:"teams"`
	Hints    int64 `json:"hints"`
}

type WipeRepository struct {
	db *gorm.DB
}

func NewWipeRepository(db *gorm.DB) *WipeRepository {
	return &WipeRepository{db: db}
}

// DeleteEventData removes all teams, members, progress and hints in one
// transaction. Questions are kept.
func (r *WipeRepository) DeleteEventData(ctx context.Context) (*WipeCounts, error) {
	counts := &WipeCounts{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model interface{}
			count *int64
		}{
			{&models.TeamProgress{}, &counts.Progress},
			{&models.User{}, &counts.Users},
			{&models.Team{}, &counts.Teams},
			{&models.Hint{}, &counts.Hints},
		}

		for _, step := range steps {
			result := tx.Where("1 = 1").Delete(step.model)
			if result.Error != nil {
				return result.Error
			}
			*step.count = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete event data")
	}

	return counts, nil
}
