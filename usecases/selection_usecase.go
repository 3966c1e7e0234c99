package usecases

import (
	"slices"
	"sync"

	"github.com/hashicorp/go-set/v2"
)

// SelectionUsecase tracks which records the user has checked. Membership is
// by id, so a selection survives a reload of the same page; changing page or
// filters deliberately does not clear it.
type SelectionUsecase struct {
	mu       sync.Mutex
	selected *set.Set[int64]
}

func NewSelectionUsecase() *SelectionUsecase {
	return &SelectionUsecase{
		selected: set.New[int64](0),
	}
}

// Toggle flips membership of one id.
func (u *SelectionUsecase) Toggle(id int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.selected.Remove(id) {
		u.selected.Insert(id)
	}
}

// ToggleAll acts on the visible page: when every visible id is already
// selected (and the page is non-empty) exactly those ids are removed,
// otherwise all visible ids are added. Ids selected on other pages are
// never touched.
func (u *SelectionUsecase) ToggleAll(visible []int64) {
	if len(visible) == 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	allSelected := true
	for _, id := range visible {
		if !u.selected.Contains(id) {
			allSelected = false
			break
		}
	}

	for _, id := range visible {
		if allSelected {
			u.selected.Remove(id)
		} else {
			u.selected.Insert(id)
		}
	}
}

func (u *SelectionUsecase) Has(id int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected.Contains(id)
}

func (u *SelectionUsecase) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected.Size()
}

// Snapshot returns the selected ids, sorted, detached from the live set.
// Bulk actions operate on such a snapshot taken at invocation time.
func (u *SelectionUsecase) Snapshot() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	ids := u.selected.Slice()
	slices.Sort(ids)
	return ids
}

func (u *SelectionUsecase) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selected = set.New[int64](0)
}
