package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/pure_utils"
)

// DefaultSearchDebounce is the pause after the last keystroke before the
// search text becomes a filter change.
const DefaultSearchDebounce = 300 * time.Millisecond

type filterApplier interface {
	ApplyParam(ctx context.Context, param models.FilterParam, value string)
}

// SearchInputUsecase turns free-typed search text into filter changes
// without issuing one request per keystroke: the value only becomes a
// filter-state change once input pauses for the debounce window.
type SearchInputUsecase struct {
	list filterApplier

	mu        sync.Mutex
	value     string
	debouncer *pure_utils.Debouncer
}

func NewSearchInputUsecase(ctx context.Context, list filterApplier, delay time.Duration) *SearchInputUsecase {
	return newSearchInputUsecase(ctx, list, delay, pure_utils.StdAfterFunc)
}

func newSearchInputUsecase(ctx context.Context, list filterApplier, delay time.Duration,
	after pure_utils.AfterFunc,
) *SearchInputUsecase {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	u := &SearchInputUsecase{list: list}
	u.debouncer = pure_utils.NewDebouncerWithScheduler(delay, func() {
		u.mu.Lock()
		value := u.value
		u.mu.Unlock()
		u.list.ApplyParam(ctx, models.FilterSearch, value)
	}, after)
	return u
}

// SetValue records the latest input and (re)starts the debounce window.
func (u *SearchInputUsecase) SetValue(value string) {
	u.mu.Lock()
	u.value = value
	u.mu.Unlock()
	u.debouncer.Trigger()
}

// Cancel drops a pending filter change, e.g. on view teardown.
func (u *SearchInputUsecase) Cancel() {
	u.debouncer.Cancel()
}
