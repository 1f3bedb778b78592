package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  Message
	}{
		{
			name:  "Hint",
			event: HintEvent{Hint: "Look under the bridge"},
			want:  Message{Type: TypeHint, Hint: "Look under the bridge"},
		},
		{
			name:  "Team lock",
			event: TeamLockEvent{TeamName: "Autobots", Locked: true},
			want:  Message{Type: TypeLock, TeamName: "Autobots", Message: "Team Autobots locked!"},
		},
		{
			name:  "Team unlock",
			event: TeamLockEvent{TeamName: "Autobots"},
			want:  Message{Type: TypeUnlock, TeamName: "Autobots", Message: "Team Autobots unlocked!"},
		},
		{
			name:  "Lock all",
			event: AllLocksEvent{Locked: true},
			want:  Message{Type: TypeLockAll, Message: "All teams locked!"},
		},
		{
			name:  "Unlock all",
			event: AllLocksEvent{},
			want:  Message{Type: TypeUnlockAll, Message: "All teams unlocked!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.event))
		})
	}
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Command
		wantErr error
	}{
		{
			name:    "Hint",
			payload: `{"type":"hint","hint":"Check the clock tower"}`,
			want:    HintCommand{Text: "Check the clock tower"},
		},
		{
			name:    "Legacy hint field",
			payload: `{"type":"hint","hintText":"Check the clock tower"}`,
			want:    HintCommand{Text: "Check the clock tower"},
		},
		{
			name:    "Hint missing",
			payload: `{"type":"hint"}`,
			wantErr: ErrMissingHint,
		},
		{
			name:    "Hint not a string",
			payload: `{"type":"hint","hint":42}`,
			wantErr: ErrMissingHint,
		},
		{
			name:    "Hint blank",
			payload: `{"type":"hint","hint":"   "}`,
			wantErr: ErrMissingHint,
		},
		{
			name:    "Lock",
			payload: `{"type":"lock","team_name":"Autobots"}`,
			want:    TeamLockCommand{TeamName: "Autobots", Locked: true},
		},
		{
			name:    "Unlock",
			payload: `{"type":"unlock","team_name":"Autobots"}`,
			want:    TeamLockCommand{TeamName: "Autobots"},
		},
		{
			name:    "Lock without team",
			payload: `{"type":"lock"}`,
			wantErr: ErrMissingTeamName,
		},
		{
			name:    "Lock all",
			payload: `{"type":"lock_all"}`,
			want:    AllLocksCommand{Locked: true},
		},
		{
			name:    "Unlock all",
			payload: `{"type":"unlock_all"}`,
			want:    AllLocksCommand{},
		},
		{
			name:    "Not JSON",
			payload: `lock everyone`,
			wantErr: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := DecodeCommand([]byte(tt.payload))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestDecodeCommand_UnknownType(t *testing.T) {
	_, err := DecodeCommand([]byte(`{"type":"explode"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")
}
