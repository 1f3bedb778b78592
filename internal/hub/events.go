package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Wire message types
const (
	TypeHint      = "hint"
	TypeLock      = "lock"
	TypeUnlock    = "unlock"
	TypeLockAll   = "lock_all"
	TypeUnlockAll = "unlock_all"
	TypeError     = "error"
)

// Event is a notification fanned out to every connected client. The set of
// events is closed: HintEvent, TeamLockEvent and AllLocksEvent.
type Event interface {
	isEvent()
}

type HintEvent struct {
	Hint string
}

type TeamLockEvent struct {
	TeamName string
	Locked   bool
}

type AllLocksEvent struct {
	Locked bool
}

func (HintEvent) isEvent()     {}
func (TeamLockEvent) isEvent() {}
func (AllLocksEvent) isEvent() {}

// Message is the JSON shape of an outbound event.
type Message struct {
	Type     string `json:"type"`
	Hint     string `json:"hint,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ErrorMessage is sent only to the client whose command was rejected.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Encode converts an event to its wire message.
func Encode(e Event) Message {
	switch ev := e.(type) {
	case HintEvent:
		return Message{Type: TypeHint, Hint: ev.Hint}
	case TeamLockEvent:
		if ev.Locked {
			return Message{Type: TypeLock, TeamName: ev.TeamName, Message: fmt.Sprintf("Team %s locked!", ev.TeamName)}
		}
		return Message{Type: TypeUnlock, TeamName: ev.TeamName, Message: fmt.Sprintf("Team %s unlocked!", ev.TeamName)}
	case AllLocksEvent:
		if ev.Locked {
			return Message{Type: TypeLockAll, Message: "All teams locked!"}
		}
		return Message{Type: TypeUnlockAll, Message: "All teams unlocked!"}
	default:
		panic(fmt.Sprintf("hub: unknown event %T", e))
	}
}

// Command is an instruction received from a connected client. The set of
// commands is closed: HintCommand, TeamLockCommand and AllLocksCommand.
type Command interface {
	Type() string
}

type HintCommand struct {
	Text string
}

type TeamLockCommand struct {
	TeamName string
	Locked   bool
}

type AllLocksCommand struct {
	Locked bool
}

func (HintCommand) Type() string { return TypeHint }

func (c TeamLockCommand) Type() string {
	if c.Locked {
		return TypeLock
	}
	return TypeUnlock
}

func (c AllLocksCommand) Type() string {
	if c.Locked {
		return TypeLockAll
	}
	return TypeUnlockAll
}

// Decode errors reported back to the sender
var (
	ErrInvalidPayload  = errors.New("invalid message payload")
	ErrMissingHint     = errors.New("hint text is required")
	ErrMissingTeamName = errors.New("team_name is required")
)

type inboundMessage struct {
	Type     string          `json:"type"`
	Hint     json.RawMessage `json:"hint"`
	HintText json.RawMessage `json:"hintText"`
	TeamName json.RawMessage `json:"team_name"`
}

// DecodeCommand parses a client frame. Hint text is read from "hint" and,
// for older organizer consoles, "hintText".
func DecodeCommand(data []byte) (Command, error) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, ErrInvalidPayload
	}

	switch msg.Type {
	case TypeHint:
		text, ok := stringField(msg.Hint)
		if !ok {
			text, ok = stringField(msg.HintText)
		}
		if !ok || strings.TrimSpace(text) == "" {
			return nil, ErrMissingHint
		}
		return HintCommand{Text: text}, nil
	case TypeLock, TypeUnlock:
		name, ok := stringField(msg.TeamName)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, ErrMissingTeamName
		}
		return TeamLockCommand{TeamName: name, Locked: msg.Type == TypeLock}, nil
	case TypeLockAll, TypeUnlockAll:
		return AllLocksCommand{Locked: msg.Type == TypeLockAll}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
