package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/testutil"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
)

func TestAnswerService_SubmitAnswer(t *testing.T) {
	env := newTestEnv(t)
	svc := env.answers()
	ctx := context.Background()

	team := env.fx.Team(t, "Autobots")
	q := env.fx.Questions(t, 1)[0]

	res, err := svc.SubmitAnswer(ctx, team.Name, q.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, StatusIncorrect, res.Status)
	assert.Equal(t, MsgIncorrect, res.Message)

	res, err = svc.SubmitAnswer(ctx, team.Name, q.ID, "A1")
	require.NoError(t, err)
	assert.Equal(t, StatusCorrect, res.Status)
	assert.True(t, res.Created)
	assert.Equal(t, MsgCorrect, res.Message)
}

func TestAnswerService_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   SubmissionStatus
	}{
		{name: "Upper", answer: "PARIS", want: StatusCorrect},
		{name: "Lower", answer: "paris", want: StatusCorrect},
		{name: "Mixed", answer: "pArIs", want: StatusCorrect},
		{name: "Trailing space", answer: "Paris ", want: StatusIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			team := env.fx.Team(t, "Autobots")
			q := env.fx.Questions(t, 1)[0]
			require.NoError(t, env.db.Model(&q).Update("answer", "Paris").Error)

			res, err := env.answers().SubmitAnswer(context.Background(), team.Name, q.ID, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestAnswerService_ResubmissionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.answers()
	ctx := context.Background()

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	team := env.fx.Team(t, "Autobots")
	q := env.fx.Questions(t, 1)[0]

	res, err := svc.SubmitAnswer(ctx, team.Name, q.ID, "a1")
	require.NoError(t, err)
	require.Equal(t, StatusCorrect, res.Status)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	for _, candidate := range []string{"a1", "wrong"} {
		res, err := svc.SubmitAnswer(ctx, team.Name, q.ID, candidate)
		require.NoError(t, err)
		assert.Equal(t, StatusAlreadyCompleted, res.Status, "candidate %q", candidate)
		assert.Equal(t, MsgAlreadyCompleted, res.Message)
	}

	progress, err := env.progressRepo.FindProgress(ctx, team.ID, q.ID)
	require.NoError(t, err)
	require.NotNil(t, progress.SolvedAt)
	assert.True(t, progress.SolvedAt.Equal(first), "solved_at must not move")
}

func TestAnswerService_ConcurrentCorrectSubmissions(t *testing.T) {
	env := newTestEnv(t)
	svc := env.answers()
	ctx := context.Background()

	team := env.fx.Team(t, "Autobots")
	q := env.fx.Questions(t, 1)[0]

	const n = 20
	results := make(chan SubmissionStatus, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.SubmitAnswer(ctx, team.Name, q.ID, "a1")
			if err != nil {
				t.Errorf("SubmitAnswer() error = %v", err)
				return
			}
			results <- res.Status
		}()
	}
	wg.Wait()
	close(results)

	counts := map[SubmissionStatus]int{}
	for status := range results {
		counts[status]++
	}
	assert.Equal(t, 1, counts[StatusCorrect])
	assert.Equal(t, n-1, counts[StatusAlreadyCompleted])
	assert.Equal(t, 0, svc.locks.size(), "per-pair locks must be released")

	ids, err := env.progressRepo.CompletedQuestionIDs(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestAnswerService_CompletesExistingRow(t *testing.T) {
	env := newTestEnv(t)
	team := env.fx.Team(t, "Autobots")
	q := env.fx.Questions(t, 1)[0]
	require.NoError(t, env.db.Exec(
		"INSERT INTO team_progress (id, team_id, question_id, is_completed) VALUES (?, ?, ?, ?)",
		"p-1", team.ID, q.ID, false,
	).Error)

	res, err := env.answers().SubmitAnswer(context.Background(), team.Name, q.ID, "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusCorrect, res.Status)
	assert.False(t, res.Created)
}

func TestAnswerService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := env.answers()
	ctx := context.Background()

	team := env.fx.Team(t, "Autobots")
	q := env.fx.Questions(t, 1)[0]

	_, err := svc.SubmitAnswer(ctx, "Ghosts", q.ID, "a1")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = svc.SubmitAnswer(ctx, team.Name, "missing", "a1")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestAnswerService_StoreFailure(t *testing.T) {
	db, mock := testutil.OpenMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "teams"`).WillReturnError(assert.AnError)

	svc := NewAnswerService(
		repositories.NewTeamRepository(db),
		repositories.NewQuestionRepository(db),
		repositories.NewProgressRepository(db),
		nil,
	)

	_, err := svc.SubmitAnswer(context.Background(), "Autobots", "q", "a")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternalError, errors.CodeOf(err))
	assert.Equal(t, "Internal Server Error", errors.PublicMessage(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
