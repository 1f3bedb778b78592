package services

import (
	"context"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// Broadcaster fans an event out to connected clients and reports how many
// received it.
type Broadcaster interface {
	Broadcast(e hub.Event) int
}

type LockService struct {
	teamRepo    *repositories.TeamRepository
	broadcaster Broadcaster
}

func NewLockService(teamRepo *repositories.TeamRepository, broadcaster Broadcaster) *LockService {
	return &LockService{
		teamRepo:    teamRepo,
		broadcaster: broadcaster,
	}
}

// IsLocked reports the lock flag of a team
func (s *LockService) IsLocked(ctx context.Context, teamName string) (bool, error) {
	team, err := s.teamRepo.GetTeamByName(ctx, security.SanitizeText(teamName))
	if err != nil {
		return false, err
	}
	return team.Locked, nil
}

// SetLock stores the lock flag of one team and announces it
func (s *LockService) SetLock(ctx context.Context, teamName string, locked bool) error {
	team, err := s.teamRepo.GetTeamByName(ctx, security.SanitizeText(teamName))
	if err != nil {
		return err
	}

	if err := s.teamRepo.SetLocked(ctx, team.ID, locked); err != nil {
		return err
	}

	delivered := s.broadcaster.Broadcast(hub.TeamLockEvent{TeamName: team.Name, Locked: locked})
	logger.Info("Team lock changed", "team", team.Name, "locked", locked, "delivered", delivered)
	return nil
}

// ToggleLock flips the lock flag and returns the new value. Two concurrent
// toggles both read the same state, so the last write wins.
func (s *LockService) ToggleLock(ctx context.Context, teamName string) (bool, error) {
	locked, err := s.IsLocked(ctx, teamName)
	if err != nil {
		return false, err
	}

	if err := s.SetLock(ctx, teamName, !locked); err != nil {
		return false, err
	}
	return !locked, nil
}

// SetAllLocks applies the lock flag to every team and returns how many
// teams were updated.
func (s *LockService) SetAllLocks(ctx context.Context, locked bool) (int64, error) {
	affected, err := s.teamRepo.SetAllLocked(ctx, locked)
	if err != nil {
		return 0, err
	}

	delivered := s.broadcaster.Broadcast(hub.AllLocksEvent{Locked: locked})
	logger.Info("All team locks changed", "locked", locked, "teams", affected, "delivered", delivered)
	return affected, nil
}
