package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
)

type chanMirror chan string

func (m chanMirror) MirrorHint(text string) error {
	m <- text
	return nil
}

func TestHintService_Publish(t *testing.T) {
	env := newTestEnv(t)
	mirror := make(chanMirror, 1)
	svc := NewHintService(env.hintRepo, env.broadcaster, mirror)
	ctx := context.Background()

	hint, err := svc.Publish(ctx, "  Look <i>behind</i> the library ")
	require.NoError(t, err)
	assert.Equal(t, "Look behind the library", hint.HintText)

	assert.Equal(t, []hub.Event{hub.HintEvent{Hint: "Look behind the library"}}, env.broadcaster.Events())

	hints, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, hint.ID, hints[0].ID)

	select {
	case got := <-mirror:
		assert.Equal(t, "Look behind the library", got)
	case <-time.After(2 * time.Second):
		t.Fatal("hint was not mirrored")
	}
}

func TestHintService_PublishBlank(t *testing.T) {
	env := newTestEnv(t)
	svc := NewHintService(env.hintRepo, env.broadcaster, nil)

	_, err := svc.Publish(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	assert.Empty(t, env.broadcaster.Events())

	hints, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hints)
}

func TestHintService_PublishKeepsPunctuation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewHintService(env.hintRepo, env.broadcaster, nil)
	text := `Tom & Jerry's "door" < 5`

	hint, err := svc.Publish(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, text, hint.HintText)
	assert.Equal(t, []hub.Event{hub.HintEvent{Hint: text}}, env.broadcaster.Events())

	hints, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, text, hints[0].HintText)
}
