package services

import (
	"context"
	"time"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/models"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// HintMirror forwards published hints to another channel.
type HintMirror interface {
	MirrorHint(text string) error
}

type HintView struct {
	ID        uint      `json:"id"`
	HintText  string    `json:"hintText"`
	CreatedAt time.Time `json:"createdAt"`
}

type HintService struct {
	hintRepo    *repositories.HintRepository
	broadcaster Broadcaster
	mirror      HintMirror
}

// NewHintService creates the hint service. mirror may be nil.
func NewHintService(hintRepo *repositories.HintRepository, broadcaster Broadcaster, mirror HintMirror) *HintService {
	return &HintService{
		hintRepo:    hintRepo,
		broadcaster: broadcaster,
		mirror:      mirror,
	}
}

// Publish stores a hint and then announces it to every connected client
func (s *HintService) Publish(ctx context.Context, text string) (*HintView, error) {
	text = security.SanitizeText(text)
	if text == "" {
		return nil, errors.New(errors.ErrCodeValidation, "Hint text is required")
	}

	hint := &models.Hint{Text: text}
	if err := s.hintRepo.CreateHint(ctx, hint); err != nil {
		return nil, err
	}

	delivered := s.broadcaster.Broadcast(hub.HintEvent{Hint: hint.Text})
	logger.Info("Hint published", "hint_id", hint.ID, "delivered", delivered)

	if s.mirror != nil {
		go func(text string) {
			if err := s.mirror.MirrorHint(text); err != nil {
				logger.Warn("Failed to mirror hint", "error", err)
			}
		}(hint.Text)
	}

	return viewOfHint(hint), nil
}

// List returns published hints oldest first
func (s *HintService) List(ctx context.Context) ([]HintView, error) {
	hints, err := s.hintRepo.ListHints(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]HintView, 0, len(hints))
	for i := range hints {
		views = append(views, *viewOfHint(&hints[i]))
	}
	return views, nil
}

func viewOfHint(h *models.Hint) *HintView {
	return &HintView{ID: h.ID, HintText: h.Text, CreatedAt: h.CreatedAt}
}
