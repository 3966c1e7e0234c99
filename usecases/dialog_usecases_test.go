package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/logdeck/models"
)

type fakeRecordStore struct {
	mu        sync.Mutex
	records   map[int64]models.LogRecord
	getErr    error
	updateErr error
	deleteErr error
	updates   []models.UpdateLogRecordAttributes
	deleted   [][]int64
}

func (s *fakeRecordStore) GetLog(ctx context.Context, id int64) (models.LogRecord, error) {
	if s.getErr != nil {
		return models.LogRecord{}, s.getErr
	}
	record, ok := s.records[id]
	if !ok {
		return models.LogRecord{}, errors.Wrap(models.NotFoundError, "no such log")
	}
	return record, nil
}

func (s *fakeRecordStore) UpdateLog(ctx context.Context, id int64, attrs models.UpdateLogRecordAttributes) (models.LogRecord, error) {
	s.mu.Lock()
	s.updates = append(s.updates, attrs)
	s.mu.Unlock()
	if s.updateErr != nil {
		return models.LogRecord{}, s.updateErr
	}
	return s.records[id], nil
}

func (s *fakeRecordStore) DeleteLogs(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, ids)
	s.mu.Unlock()
	return s.deleteErr
}

type reloadSpy struct {
	mu    sync.Mutex
	count int
}

func (s *reloadSpy) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
}

func (s *reloadSpy) reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

type refreshSpy struct {
	mu    sync.Mutex
	count int
}

func (s *refreshSpy) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
}

func (s *refreshSpy) refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func TestViewDialogUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the record on open", func(t *testing.T) {
		store := &fakeRecordStore{records: map[int64]models.LogRecord{
			7: {Id: 7, FileName: "stint3.mcap"},
		}}
		u := NewViewDialogUsecase(store)
		u.Open(ctx, 7)

		state := u.State()
		assert.True(t, state.Open)
		assert.False(t, state.Loading)
		assert.NoError(t, state.Err)
		assert.Equal(t, "stint3.mcap", state.Record.FileName)
	})

	t.Run("keeps the dialog open with an inline error on a failed fetch", func(t *testing.T) {
		store := &fakeRecordStore{getErr: errors.Wrap(models.TransportError, "timeout")}
		u := NewViewDialogUsecase(store)
		u.Open(ctx, 7)

		state := u.State()
		assert.True(t, state.Open)
		assert.False(t, state.Loading)
		assert.Error(t, state.Err)
	})
}

func TestEditDialogUsecase(t *testing.T) {
	ctx := context.Background()
	record := models.LogRecord{
		Id:    7,
		Cars:  []string{"GT3-11"},
		Tags:  []string{"qualifying"},
		Notes: "brake balance sweep",
	}

	newDialog := func(store *fakeRecordStore) (*EditDialogUsecase, *reloadSpy, *refreshSpy) {
		list := &reloadSpy{}
		lookups := &refreshSpy{}
		return NewEditDialogUsecase(store, list, lookups), list, lookups
	}

	t.Run("open seeds the form from the fetched record", func(t *testing.T) {
		u, _, _ := newDialog(&fakeRecordStore{records: map[int64]models.LogRecord{7: record}})
		require.NoError(t, u.Open(ctx, 7))

		state := u.State()
		assert.True(t, state.Open)
		assert.Equal(t, []string{"GT3-11"}, state.Form.Lists[models.FieldCars])
		assert.Equal(t, []string{"qualifying"}, state.Form.Lists[models.FieldTags])
		assert.Equal(t, "brake balance sweep", state.Form.Notes)
	})

	t.Run("add suppresses case-insensitive duplicates", func(t *testing.T) {
		u, _, _ := newDialog(&fakeRecordStore{records: map[int64]models.LogRecord{7: record}})
		require.NoError(t, u.Open(ctx, 7))

		u.Add(models.FieldCars, "gt3-11")
		u.Add(models.FieldCars, "  GT3-12 ")
		u.Add(models.FieldCars, "")

		assert.Equal(t, []string{"GT3-11", "GT3-12"}, u.State().Form.Lists[models.FieldCars])
	})

	t.Run("remove drops the exact value", func(t *testing.T) {
		u, _, _ := newDialog(&fakeRecordStore{records: map[int64]models.LogRecord{7: record}})
		require.NoError(t, u.Open(ctx, 7))

		u.Remove(models.FieldTags, "qualifying")
		assert.Empty(t, u.State().Form.Lists[models.FieldTags])
	})

	t.Run("save sends the snapshot, reloads the list and refreshes the lookups", func(t *testing.T) {
		store := &fakeRecordStore{records: map[int64]models.LogRecord{7: record}}
		u, list, lookups := newDialog(store)
		require.NoError(t, u.Open(ctx, 7))

		u.Add(models.FieldDrivers, "M. Sato")
		u.SetNotes("new note")
		require.NoError(t, u.Save(ctx))

		require.Len(t, store.updates, 1)
		assert.Equal(t, []string{"M. Sato"}, store.updates[0].Drivers)
		assert.Equal(t, []string{"GT3-11"}, store.updates[0].Cars)
		assert.Equal(t, "new note", store.updates[0].Notes)
		assert.False(t, u.State().Open)
		assert.Equal(t, 1, list.reloads())
		assert.Equal(t, 1, lookups.refreshes())
	})

	t.Run("a failed save keeps the dialog open with the form intact", func(t *testing.T) {
		store := &fakeRecordStore{
			records:   map[int64]models.LogRecord{7: record},
			updateErr: errors.Wrap(models.ValidationError, "rejected"),
		}
		u, list, _ := newDialog(store)
		require.NoError(t, u.Open(ctx, 7))
		u.SetNotes("unsaved")

		require.Error(t, u.Save(ctx))

		state := u.State()
		assert.True(t, state.Open)
		assert.Error(t, state.Err)
		assert.Equal(t, "unsaved", state.Form.Notes)
		assert.Equal(t, 0, list.reloads())
	})
}

func TestDeleteDialogUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("full success clears the selection and reloads", func(t *testing.T) {
		store := &fakeRecordStore{}
		list := &reloadSpy{}
		selection := NewSelectionUsecase()
		selection.Toggle(1)
		selection.Toggle(2)

		u := NewDeleteDialogUsecase(store, list, selection)
		u.Open(selection.Snapshot())
		require.NoError(t, u.Confirm(ctx))

		require.Len(t, store.deleted, 1)
		assert.Equal(t, []int64{1, 2}, store.deleted[0])
		assert.Equal(t, 0, selection.Count())
		assert.Equal(t, 1, list.reloads())
		assert.False(t, u.State().Open)
	})

	t.Run("partial failure keeps the selection and still reloads", func(t *testing.T) {
		store := &fakeRecordStore{deleteErr: models.PartialDeleteError{Failed: 1}}
		list := &reloadSpy{}
		selection := NewSelectionUsecase()
		selection.Toggle(1)
		selection.Toggle(2)

		u := NewDeleteDialogUsecase(store, list, selection)
		u.Open(selection.Snapshot())
		err := u.Confirm(ctx)

		partial, ok := models.IsPartialDelete(err)
		require.True(t, ok)
		assert.Equal(t, 1, partial.Failed)
		assert.Equal(t, 2, selection.Count())
		assert.Equal(t, 1, list.reloads())
		assert.True(t, u.State().Open)
		assert.Error(t, u.State().Err)
	})

	t.Run("opening with no ids is a no-op", func(t *testing.T) {
		u := NewDeleteDialogUsecase(&fakeRecordStore{}, &reloadSpy{}, NewSelectionUsecase())
		u.Open(nil)
		assert.False(t, u.State().Open)
		require.NoError(t, u.Confirm(ctx))
	})
}
