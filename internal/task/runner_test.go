package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/events"
	"github.com/phrazzld/recall-api/internal/store"
)

// fakeTask records executions and optionally fails.
type fakeTask struct {
	id       uuid.UUID
	executed chan struct{}
	err      error
}

func newFakeTask(err error) *fakeTask {
	return &fakeTask{id: uuid.New(), executed: make(chan struct{}, 1), err: err}
}

func (t *fakeTask) ID() uuid.UUID   { return t.id }
func (t *fakeTask) Type() string    { return "fake" }
func (t *fakeTask) Execute(ctx context.Context) error {
	t.executed <- struct{}{}
	return t.err
}

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	t.Parallel()

	r := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 4}, slog.Default())
	r.Start()
	defer r.Stop()

	ft := newFakeTask(nil)
	require.NoError(t, r.Submit(context.Background(), ft))

	select {
	case <-ft.executed:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed")
	}
}

func TestRunnerInvokesErrorHandler(t *testing.T) {
	t.Parallel()

	r := NewTaskRunner(DefaultTaskRunnerConfig(), slog.Default())

	var mu sync.Mutex
	var handled []error
	done := make(chan struct{}, 1)
	r.SetErrorHandler(func(task Task, err error) {
		mu.Lock()
		handled = append(handled, err)
		mu.Unlock()
		done <- struct{}{}
	})

	r.Start()
	defer r.Stop()

	boom := errors.New("boom")
	require.NoError(t, r.Submit(context.Background(), newFakeTask(boom)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], boom)
}

func TestSubmitReturnsErrQueueFull(t *testing.T) {
	t.Parallel()

	// Runner not started: nothing drains the queue.
	r := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, slog.Default())

	require.NoError(t, r.Submit(context.Background(), newFakeTask(nil)))
	err := r.Submit(context.Background(), newFakeTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

// memorySnapshotStore is an in-memory store.SnapshotStore for tests.
type memorySnapshotStore struct {
	mu    sync.Mutex
	saved []*store.CollectionSnapshot
}

func (m *memorySnapshotStore) Save(ctx context.Context, snapshot *store.CollectionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *memorySnapshotStore) LoadLatest(ctx context.Context) (*store.CollectionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil, store.ErrSnapshotNotFound
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memorySnapshotStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func TestSnapshotSaveTaskPersistsCurrentState(t *testing.T) {
	t.Parallel()

	cards := store.NewFlashcardStore(srs.NewDefaultService(), nil, slog.Default())
	cards.CreateCard(context.Background(), domain.CardSpec{Front: "q", Back: "a"})

	sink := &memorySnapshotStore{}
	st, err := NewSnapshotSaveTask(cards, sink)
	require.NoError(t, err)

	require.NoError(t, st.Execute(context.Background()))

	latest, err := sink.LoadLatest(context.Background())
	require.NoError(t, err)
	assert.Len(t, latest.Cards, 1)
}

func TestSnapshotEventHandlerQueuesSave(t *testing.T) {
	t.Parallel()

	cards := store.NewFlashcardStore(srs.NewDefaultService(), nil, slog.Default())
	sink := &memorySnapshotStore{}

	r := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, slog.Default())
	r.Start()
	defer r.Stop()

	h, err := NewSnapshotEventHandler(r, cards, sink, slog.Default())
	require.NoError(t, err)

	event := events.NewChangeEvent(events.ReasonCardsCreated, uuid.New())
	require.NoError(t, h.HandleEvent(context.Background(), event))

	require.Eventually(t, func() bool {
		return sink.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSnapshotEventHandlerToleratesFullQueue(t *testing.T) {
	t.Parallel()

	cards := store.NewFlashcardStore(srs.NewDefaultService(), nil, slog.Default())
	sink := &memorySnapshotStore{}

	// Not started and tiny queue: the second submit hits ErrQueueFull.
	r := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, slog.Default())
	h, err := NewSnapshotEventHandler(r, cards, sink, slog.Default())
	require.NoError(t, err)

	event := events.NewChangeEvent(events.ReasonCardUpdated, uuid.New())
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.NoError(t, h.HandleEvent(context.Background(), event), "full queue is not an error")
}
