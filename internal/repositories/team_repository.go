package repositories

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetTeamByName retrieves a team by its unique name
func (r *TeamRepository) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&team)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "Team not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get team")
	}

	return &team, nil
}

// TeamNameExists checks whether a team name is already taken
func (r *TeamRepository) TeamNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Team{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check team name")
	}
	return count > 0, nil
}

// RegisteredEnrollNos returns the subset of enrollNos that already belong
// to a team.
func (r *TeamRepository) RegisteredEnrollNos(ctx context.Context, enrollNos []string) ([]string, error) {
	if len(enrollNos) == 0 {
		return nil, nil
	}

	var taken []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("enroll_no IN ?", enrollNos).
		Pluck("enroll_no", &taken).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check members")
	}
	return taken, nil
}

// CreateTeamWithUsers stores a team and its members atomically
func (r *TeamRepository) CreateTeamWithUsers(ctx context.Context, team *models.Team) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := team.Users
		team.Users = nil

		if err := tx.Create(team).Error; err != nil {
			return err
		}

		for i := range users {
			users[i].TeamID = team.ID
		}
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return err
			}
		}
		team.Users = users
		return nil
	})

	if err == gorm.ErrDuplicatedKey {
		return errors.Wrap(err, errors.ErrCodeConflict, "Team name or member already registered")
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create team")
	}
	return nil
}

// SetLocked updates the lock flag of a single team
func (r *TeamRepository) SetLocked(ctx context.Context, teamID uint, locked bool) error {
	err := r.db.WithContext(ctx).Model(&models.Team{}).
		Where("id = ?", teamID).
		Update("locked", locked).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update team lock")
	}
	return nil
}

// SetAllLocked sets the lock flag on every team and returns how many rows
// were touched.
func (r *TeamRepository) SetAllLocked(ctx context.Context, locked bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Team{}).
		Where("1 = 1").
		Update("locked", locked)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update team locks")
	}
	return result.RowsAffected, nil
}

// ListTeamsWithUsers returns every team with its members, in id order
func (r *TeamRepository) ListTeamsWithUsers(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list teams")
	}
	return teams, nil
}
