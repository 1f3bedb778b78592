package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/config"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// Sender is the subset of the Bot API used to post messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot mirrors hints into the organizers' chat and accepts organizer
// commands from that chat only.
type Bot struct {
	api        *tgbotapi.BotAPI
	sender     Sender
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

func InitBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.IsDevelopment() {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName, "chat_id", cfg.TelegramChatID)

	return &Bot{
		api:        api,
		sender:     api,
		chatID:     cfg.TelegramChatID,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// MirrorHint posts a published hint to the organizers' chat
func (b *Bot) MirrorHint(text string) error {
	if _, ok := b.sendMessage(b.chatID, "💡 Hint: "+text); !ok {
		return fmt.Errorf("failed to post hint to chat %d", b.chatID)
	}
	return nil
}

// Listen processes chat commands until ctx is cancelled.
func (b *Bot) Listen(ctx context.Context, handler hub.CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

	recv:
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					break recv
				}
				b.handleUpdate(ctx, handler, update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, handler hub.CommandHandler, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	message := update.Message
	if message == nil || message.Chat == nil || !message.IsCommand() {
		return
	}
	if message.Chat.ID != b.chatID {
		logger.Debug("Ignoring command from foreign chat", "chat_id", message.Chat.ID)
		return
	}

	b.sendMessage(message.Chat.ID, b.runCommand(ctx, handler, message.Command(), message.CommandArguments()))
}

func (b *Bot) runCommand(ctx context.Context, handler hub.CommandHandler, name, args string) string {
	cmd, err := ParseCommand(name, args)
	if err != nil {
		return "⚠️ " + err.Error()
	}

	if err := handler.HandleCommand(ctx, cmd); err != nil {
		if errors.CodeOf(err) == errors.ErrCodeInternalError {
			logger.Error("Chat command failed", "command", name, "error", err)
		}
		return "⚠️ " + errors.PublicMessage(err)
	}
	return "✅ " + name + " done"
}

// ParseCommand maps a chat command to a real-time command:
// /hint <text>, /lock <team>, /unlock <team>, /lockall, /unlockall.
func ParseCommand(name, args string) (hub.Command, error) {
	args = strings.TrimSpace(args)

	switch name {
	case "hint":
		if args == "" {
			return nil, hub.ErrMissingHint
		}
		return hub.HintCommand{Text: args}, nil
	case "lock", "unlock":
		if args == "" {
			return nil, hub.ErrMissingTeamName
		}
		return hub.TeamLockCommand{TeamName: args, Locked: name == "lock"}, nil
	case "lockall":
		return hub.AllLocksCommand{Locked: true}, nil
	case "unlockall":
		return hub.AllLocksCommand{Locked: false}, nil
	default:
		return nil, fmt.Errorf("unknown command /%s", name)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) (int, bool) {
	msg := tgbotapi.NewMessage(chatID, text)

	for i := 0; i < b.maxRetries; i++ {
		sentMsg, err := b.sender.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * b.retryDelay)
				continue
			}
			return 0, false
		}
		return sentMsg.MessageID, true
	}
	return 0, false
}
