package services

import (
	"sync"
	"testing"

	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/hub"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/repositories"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/testutil"
	"gorm.io/gorm"
)

// fakeBroadcaster records every event instead of sending it
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []hub.Event
}

func (f *fakeBroadcaster) Broadcast(e hub.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return 1
}

func (f *fakeBroadcaster) Events() []hub.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]hub.Event(nil), f.events...)
}

type testEnv struct {
	db           *gorm.DB
	fx           testutil.Fixture
	teamRepo     *repositories.TeamRepository
	questionRepo *repositories.QuestionRepository
	progressRepo *repositories.ProgressRepository
	hintRepo     *repositories.HintRepository
	wipeRepo     *repositories.WipeRepository
	broadcaster  *fakeBroadcaster
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.OpenDB(t)
	return &testEnv{
		db:           db,
		fx:           testutil.Fixture{DB: db},
		teamRepo:     repositories.NewTeamRepository(db),
		questionRepo: repositories.NewQuestionRepository(db),
		progressRepo: repositories.NewProgressRepository(db),
		hintRepo:     repositories.NewHintRepository(db),
		wipeRepo:     repositories.NewWipeRepository(db),
		broadcaster:  &fakeBroadcaster{},
	}
}

func (e *testEnv) answers() *AnswerService {
	return NewAnswerService(e.teamRepo, e.questionRepo, e.progressRepo, nil)
}

func (e *testEnv) locks() *LockService {
	return NewLockService(e.teamRepo, e.broadcaster)
}

func (e *testEnv) ranking() *RankingService {
	return NewRankingService(e.teamRepo, e.questionRepo, e.progressRepo)
}
