package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/repositories/clock"
)

type funcListRepo struct {
	mu    sync.Mutex
	calls []models.LogFilters
	fn    func(filters models.LogFilters) ([]models.LogRecord, int, error)
}

func (r *funcListRepo) ListLogs(ctx context.Context, filters models.LogFilters) ([]models.LogRecord, int, error) {
	r.mu.Lock()
	r.calls = append(r.calls, filters)
	r.mu.Unlock()
	return r.fn(filters)
}

func (r *funcListRepo) lastCall() models.LogFilters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func TestListSyncUsecase_Apply(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("a successful fetch replaces the page and stamps the load time", func(t *testing.T) {
		repo := &funcListRepo{fn: func(filters models.LogFilters) ([]models.LogRecord, int, error) {
			return []models.LogRecord{{Id: 1}, {Id: 2}}, 25, nil
		}}
		u := NewListSyncUsecase(repo, clock.NewMock(now))

		u.Apply(context.Background(), models.LogFilters{Page: 1})

		state := u.State()
		assert.Len(t, state.Records, 2)
		assert.Equal(t, 25, state.Total)
		assert.False(t, state.Loading)
		assert.NoError(t, state.Err)
		assert.Equal(t, now, state.LastLoadedAt)
		assert.Equal(t, 3, u.TotalPages())
		assert.Equal(t, []int64{1, 2}, u.VisibleIds())
	})

	t.Run("a failed fetch keeps the last good page behind a dismissible error", func(t *testing.T) {
		fail := false
		repo := &funcListRepo{fn: func(filters models.LogFilters) ([]models.LogRecord, int, error) {
			if fail {
				return nil, 0, errors.Wrap(models.TransportError, "backend down")
			}
			return []models.LogRecord{{Id: 7}}, 1, nil
		}}
		u := NewListSyncUsecase(repo, clock.NewMock(now))
		u.Apply(context.Background(), models.LogFilters{Page: 1})

		fail = true
		u.ApplyParam(context.Background(), models.FilterCar, "gt3-11")

		state := u.State()
		require.Error(t, state.Err)
		assert.Equal(t, []int64{7}, u.VisibleIds())
		// The failed navigation still owns the filter state.
		assert.Equal(t, "gt3-11", state.Filters.Car)

		u.DismissError()
		assert.NoError(t, u.State().Err)
		assert.Equal(t, []int64{7}, u.VisibleIds())
	})

	t.Run("a slow response for old filters never overwrites a fresher page", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		var once sync.Once
		repo := &funcListRepo{fn: func(filters models.LogFilters) ([]models.LogRecord, int, error) {
			if filters.Search == "slow" {
				once.Do(func() { close(started) })
				<-release
				return []models.LogRecord{{Id: 100, FileName: "stale.mcap"}}, 1, nil
			}
			return []models.LogRecord{{Id: 200, FileName: "fresh.mcap"}}, 1, nil
		}}
		u := NewListSyncUsecase(repo, clock.NewMock(now))

		done := make(chan struct{})
		go func() {
			defer close(done)
			u.Apply(context.Background(), models.LogFilters{Search: "slow", Page: 1})
		}()
		<-started

		u.Apply(context.Background(), models.LogFilters{Search: "fast", Page: 1})
		close(release)
		<-done

		state := u.State()
		assert.Equal(t, "fast", state.Filters.Search)
		require.Len(t, state.Records, 1)
		assert.Equal(t, "fresh.mcap", state.Records[0].FileName)
		assert.False(t, state.Loading)
	})
}

func TestListSyncUsecase_GoToPage(t *testing.T) {
	repo := &funcListRepo{fn: func(filters models.LogFilters) ([]models.LogRecord, int, error) {
		return []models.LogRecord{{Id: 1}}, 25, nil
	}}
	u := NewListSyncUsecase(repo, clock.NewMock(time.Now()))
	u.Apply(context.Background(), models.LogFilters{Page: 1})

	u.GoToPage(context.Background(), 99)
	assert.Equal(t, 3, repo.lastCall().Page)

	u.GoToPage(context.Background(), -4)
	assert.Equal(t, 1, repo.lastCall().Page)
}

func TestListSyncUsecase_MergeDelta(t *testing.T) {
	repo := &funcListRepo{fn: func(filters models.LogFilters) ([]models.LogRecord, int, error) {
		return []models.LogRecord{{Id: 1, RecoveryStatus: "processing", Notes: "kept"}}, 1, nil
	}}
	u := NewListSyncUsecase(repo, clock.NewMock(time.Now()))
	u.Apply(context.Background(), models.LogFilters{Page: 1})

	status := "completed"
	gen := u.Generation()

	t.Run("merges shallowly into the displayed record", func(t *testing.T) {
		applied := u.MergeDelta(gen, models.LogRecordDelta{Id: 1, RecoveryStatus: &status})
		assert.True(t, applied)
		record := u.State().Records[0]
		assert.Equal(t, "completed", record.RecoveryStatus)
		assert.Equal(t, "kept", record.Notes)
	})

	t.Run("drops a merge computed against an older generation", func(t *testing.T) {
		u.Reload(context.Background())
		applied := u.MergeDelta(gen, models.LogRecordDelta{Id: 1, RecoveryStatus: &status})
		assert.False(t, applied)
	})

	t.Run("drops a merge for a record that left the page", func(t *testing.T) {
		applied := u.MergeDelta(u.Generation(), models.LogRecordDelta{Id: 42, RecoveryStatus: &status})
		assert.False(t, applied)
	})
}
