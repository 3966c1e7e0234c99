package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/utils"
)

// PageSize is the fixed page length served by the list endpoint.
const PageSize = 10

type listLogsRepository interface {
	ListLogs(ctx context.Context, filters models.LogFilters) ([]models.LogRecord, int, error)
}

// ListState is a point-in-time snapshot of the synchronized view.
type ListState struct {
	Filters      models.LogFilters
	Records      []models.LogRecord
	Total        int
	Loading      bool
	Err          error
	LastLoadedAt time.Time
}

// ListSyncUsecase keeps a paginated, filtered page of records consistent
// with the current filter state. Filter changes re-run the fetch; while a
// fetch is in flight the previously displayed records stay visible, and a
// failed fetch keeps the last good page alongside a dismissible error.
//
// Overlapping fetches are resolved to the most recently requested state:
// every request gets a sequence number and only the response matching the
// newest issued request is applied, so a slow response for old filters can
// never overwrite a fresher page.
type ListSyncUsecase struct {
	repo listLogsRepository
	clk  clock.Clock

	mu           sync.Mutex
	filters      models.LogFilters
	records      []models.LogRecord
	total        int
	err          error
	lastLoadedAt time.Time
	issued       uint64
	resolved     uint64
	generation   uint64
}

func NewListSyncUsecase(repo listLogsRepository, clk clock.Clock) *ListSyncUsecase {
	return &ListSyncUsecase{
		repo: repo,
		clk:  clk,
	}
}

// Apply navigates to a new filter state and fetches the matching page. It
// blocks until its own fetch resolves; if a newer Apply was issued in the
// meantime, the result is discarded.
func (u *ListSyncUsecase) Apply(ctx context.Context, filters models.LogFilters) {
	u.mu.Lock()
	u.issued++
	seq := u.issued
	u.filters = filters
	u.mu.Unlock()

	records, total, err := u.repo.ListLogs(ctx, filters)

	u.mu.Lock()
	defer u.mu.Unlock()
	if seq != u.issued {
		// A newer request owns the view now; this response is stale.
		utils.LoggerFromContext(ctx).DebugContext(ctx, "discarding stale list response",
			"seq", seq, "latest", u.issued)
		return
	}
	u.resolved = seq
	if err != nil {
		u.err = err
		return
	}
	u.records = records
	u.total = total
	u.err = nil
	u.lastLoadedAt = u.clk.Now()
	u.generation++
}

// Reload re-fetches the current filter state.
func (u *ListSyncUsecase) Reload(ctx context.Context) {
	u.mu.Lock()
	filters := u.filters
	u.mu.Unlock()
	u.Apply(ctx, filters)
}

// ApplyParam changes one filter (resetting the page) and fetches.
func (u *ListSyncUsecase) ApplyParam(ctx context.Context, param models.FilterParam, value string) {
	u.mu.Lock()
	filters := u.filters.WithParam(param, value)
	u.mu.Unlock()
	u.Apply(ctx, filters)
}

// GoToPage navigates to a page, clamped to the known page range.
func (u *ListSyncUsecase) GoToPage(ctx context.Context, page int) {
	u.mu.Lock()
	filters := u.filters.WithPage(min(max(1, page), u.totalPagesLocked()))
	u.mu.Unlock()
	u.Apply(ctx, filters)
}

// State returns a snapshot; the record slice is copied so callers can hold
// it across concurrent merges.
func (u *ListSyncUsecase) State() ListState {
	u.mu.Lock()
	defer u.mu.Unlock()
	records := make([]models.LogRecord, len(u.records))
	copy(records, u.records)
	return ListState{
		Filters:      u.filters,
		Records:      records,
		Total:        u.total,
		Loading:      u.issued > u.resolved,
		Err:          u.err,
		LastLoadedAt: u.lastLoadedAt,
	}
}

// VisibleIds returns the ids on the current page, in display order.
func (u *ListSyncUsecase) VisibleIds() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	ids := make([]int64, len(u.records))
	for i, record := range u.records {
		ids[i] = record.Id
	}
	return ids
}

// TotalPages derives the page count from the match total.
func (u *ListSyncUsecase) TotalPages() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalPagesLocked()
}

func (u *ListSyncUsecase) totalPagesLocked() int {
	return max(1, (u.total+PageSize-1)/PageSize)
}

// DismissError clears a surfaced fetch error; the last good records stay.
func (u *ListSyncUsecase) DismissError() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.err = nil
}

// Generation identifies the currently displayed ground truth. It advances
// on every applied reload, so a merge computed against an older generation
// can be recognized as outdated and dropped.
func (u *ListSyncUsecase) Generation() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.generation
}

// MergeDelta shallow-merges a polled record into the displayed page. The
// merge is dropped when gen is no longer current (a full reload landed
// after the poll began: the reload is the newer ground truth) or when the
// record is not on the page anymore. Reports whether the merge applied.
func (u *ListSyncUsecase) MergeDelta(gen uint64, delta models.LogRecordDelta) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if gen != u.generation {
		return false
	}
	for i := range u.records {
		if u.records[i].Id == delta.Id {
			u.records[i].ApplyDelta(delta)
			return true
		}
	}
	return false
}
