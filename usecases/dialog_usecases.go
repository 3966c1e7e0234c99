package usecases

import (
	"context"
	"strings"
	"sync"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/pure_utils"
)

type getLogRepository interface {
	GetLog(ctx context.Context, id int64) (models.LogRecord, error)
}

type updateLogRepository interface {
	GetLog(ctx context.Context, id int64) (models.LogRecord, error)
	UpdateLog(ctx context.Context, id int64, attrs models.UpdateLogRecordAttributes) (models.LogRecord, error)
}

type deleteLogsRepository interface {
	DeleteLogs(ctx context.Context, ids []int64) error
}

type selectionClearer interface {
	Clear()
}

type lookupsRefresher interface {
	Refresh(ctx context.Context)
}

// ViewDialogUsecase loads one record in full for read-only display,
// independent of the table state.
type ViewDialogUsecase struct {
	repo getLogRepository

	mu      sync.Mutex
	open    bool
	loading bool
	record  models.LogRecord
	err     error
}

type ViewDialogState struct {
	Open    bool
	Loading bool
	Record  models.LogRecord
	Err     error
}

func NewViewDialogUsecase(repo getLogRepository) *ViewDialogUsecase {
	return &ViewDialogUsecase{repo: repo}
}

// Open shows the dialog in its loading state, fetches the record, then
// settles on the record or an inline error. The underlying table is never
// affected.
func (u *ViewDialogUsecase) Open(ctx context.Context, id int64) {
	u.mu.Lock()
	u.open = true
	u.loading = true
	u.err = nil
	u.mu.Unlock()

	record, err := u.repo.GetLog(ctx, id)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.loading = false
	if err != nil {
		u.err = err
		return
	}
	u.record = record
}

func (u *ViewDialogUsecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = false
	u.loading = false
	u.record = models.LogRecord{}
	u.err = nil
}

func (u *ViewDialogUsecase) State() ViewDialogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return ViewDialogState{Open: u.open, Loading: u.loading, Record: u.record, Err: u.err}
}

// EditForm is the editable snapshot seeded from a fetched record: the five
// metadata lists plus notes.
type EditForm struct {
	Lists map[models.MetadataField][]string
	Notes string
}

func newEditForm(record models.LogRecord) EditForm {
	return EditForm{
		Lists: map[models.MetadataField][]string{
			models.FieldCars:       pure_utils.DedupCaseInsensitive(record.Cars),
			models.FieldDrivers:    pure_utils.DedupCaseInsensitive(record.Drivers),
			models.FieldEventTypes: pure_utils.DedupCaseInsensitive(record.EventTypes),
			models.FieldLocations:  pure_utils.DedupCaseInsensitive(record.Locations),
			models.FieldTags:       pure_utils.DedupCaseInsensitive(record.Tags),
		},
		Notes: record.Notes,
	}
}

func (f EditForm) attributes() models.UpdateLogRecordAttributes {
	return models.UpdateLogRecordAttributes{
		Cars:       f.Lists[models.FieldCars],
		Drivers:    f.Lists[models.FieldDrivers],
		EventTypes: f.Lists[models.FieldEventTypes],
		Locations:  f.Lists[models.FieldLocations],
		Tags:       f.Lists[models.FieldTags],
		Notes:      f.Notes,
	}
}

// EditDialogUsecase holds the transient edit state of one record. Values
// can be typed free-form or picked from the lookup lists; duplicates are
// suppressed case-insensitively. Saving sends only the edited snapshot,
// then reloads the list and refreshes the lookups so newly typed values
// become selectable.
type EditDialogUsecase struct {
	repo    updateLogRepository
	list    listReloader
	lookups lookupsRefresher

	mu     sync.Mutex
	open   bool
	saving bool
	id     int64
	form   EditForm
	err    error
}

type EditDialogState struct {
	Open   bool
	Saving bool
	Id     int64
	Form   EditForm
	Err    error
}

func NewEditDialogUsecase(repo updateLogRepository, list listReloader, lookups lookupsRefresher) *EditDialogUsecase {
	return &EditDialogUsecase{
		repo:    repo,
		list:    list,
		lookups: lookups,
	}
}

// Open fetches the record and seeds the form from it.
func (u *EditDialogUsecase) Open(ctx context.Context, id int64) error {
	record, err := u.repo.GetLog(ctx, id)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = true
	u.id = record.Id
	u.form = newEditForm(record)
	u.err = nil
	return nil
}

// Add appends a value to one of the metadata lists. A value already present
// under case-insensitive comparison leaves the list unchanged.
func (u *EditDialogUsecase) Add(field models.MetadataField, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if pure_utils.ContainsCaseInsensitive(u.form.Lists[field], value) {
		return
	}
	u.form.Lists[field] = append(u.form.Lists[field], value)
}

// Remove drops an exact value from one of the metadata lists.
func (u *EditDialogUsecase) Remove(field models.MetadataField, value string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.form.Lists[field] = pure_utils.Filter(u.form.Lists[field], func(v string) bool {
		return v != value
	})
}

func (u *EditDialogUsecase) SetNotes(notes string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.form.Notes = notes
}

// Save sends the edited snapshot. On success the dialog closes, the list
// reloads and the lookups refresh; on failure the dialog stays open with an
// inline error.
func (u *EditDialogUsecase) Save(ctx context.Context) error {
	u.mu.Lock()
	id := u.id
	form := u.form
	u.saving = true
	u.mu.Unlock()

	_, err := u.repo.UpdateLog(ctx, id, form.attributes())

	u.mu.Lock()
	u.saving = false
	if err != nil {
		u.err = err
		u.mu.Unlock()
		return err
	}
	u.open = false
	u.mu.Unlock()

	u.list.Reload(ctx)
	u.lookups.Refresh(ctx)
	return nil
}

func (u *EditDialogUsecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = false
	u.err = nil
}

func (u *EditDialogUsecase) State() EditDialogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	form := EditForm{Lists: map[models.MetadataField][]string{}, Notes: u.form.Notes}
	for field, values := range u.form.Lists {
		form.Lists[field] = append([]string(nil), values...)
	}
	return EditDialogState{Open: u.open, Saving: u.saving, Id: u.id, Form: form, Err: u.err}
}

// DeleteDialogUsecase confirms and runs a deletion over a fixed id
// snapshot, either a single row or the bulk selection taken when the dialog
// opened.
type DeleteDialogUsecase struct {
	repo      deleteLogsRepository
	list      listReloader
	selection selectionClearer

	mu       sync.Mutex
	open     bool
	deleting bool
	ids      []int64
	err      error
}

type DeleteDialogState struct {
	Open     bool
	Deleting bool
	Ids      []int64
	Err      error
}

func NewDeleteDialogUsecase(repo deleteLogsRepository, list listReloader, selection selectionClearer) *DeleteDialogUsecase {
	return &DeleteDialogUsecase{
		repo:      repo,
		list:      list,
		selection: selection,
	}
}

// Open arms the confirmation for the given ids.
func (u *DeleteDialogUsecase) Open(ids []int64) {
	if len(ids) == 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = true
	u.ids = append([]int64(nil), ids...)
	u.err = nil
}

// Confirm deletes the snapshot. On full success the selection is cleared
// and the list reloaded; a partial failure keeps the selection so the user
// can see what survived after the reload.
func (u *DeleteDialogUsecase) Confirm(ctx context.Context) error {
	u.mu.Lock()
	if !u.open {
		u.mu.Unlock()
		return nil
	}
	ids := u.ids
	u.deleting = true
	u.mu.Unlock()

	err := u.repo.DeleteLogs(ctx, ids)

	u.mu.Lock()
	u.deleting = false
	if err != nil {
		u.err = err
		u.mu.Unlock()
		u.list.Reload(ctx)
		return err
	}
	u.open = false
	u.mu.Unlock()

	u.selection.Clear()
	u.list.Reload(ctx)
	return nil
}

func (u *DeleteDialogUsecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = false
	u.err = nil
}

func (u *DeleteDialogUsecase) State() DeleteDialogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return DeleteDialogState{
		Open:     u.open,
		Deleting: u.deleting,
		Ids:      append([]int64(nil), u.ids...),
		Err:      u.err,
	}
}
