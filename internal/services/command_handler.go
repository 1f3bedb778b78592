package services

import (
	"context"
	"fmt"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
)

// CommandDispatcher runs real-time organizer commands through the same
// services the HTTP endpoints use.
type CommandDispatcher struct {
	locks *LockService
	hints *HintService
}

func NewCommandDispatcher(locks *LockService, hints *HintService) *CommandDispatcher {
	return &CommandDispatcher{locks: locks, hints: hints}
}

func (d *CommandDispatcher) HandleCommand(ctx context.Context, cmd hub.Command) error {
	switch c := cmd.(type) {
	case hub.HintCommand:
		_, err := d.hints.Publish(ctx, c.Text)
		return err
	case hub.TeamLockCommand:
		return d.locks.SetLock(ctx, c.TeamName, c.Locked)
	case hub.AllLocksCommand:
		_, err := d.locks.SetAllLocks(ctx, c.Locked)
		return err
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}
