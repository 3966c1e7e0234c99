package usecases

import (
	"context"
	"sync"

	"github.com/pitwall/logdeck/models"
)

type lookupsRepository interface {
	ListLookups(ctx context.Context) models.Lookups
}

// LookupsUsecase caches the distinct prior values of each metadata field for
// the filter bar and the edit form. Refreshing never fails: the gateway
// degrades unavailable lists to empty.
type LookupsUsecase struct {
	repo lookupsRepository

	mu      sync.Mutex
	lookups models.Lookups
}

func NewLookupsUsecase(repo lookupsRepository) *LookupsUsecase {
	return &LookupsUsecase{repo: repo}
}

func (u *LookupsUsecase) Refresh(ctx context.Context) {
	lookups := u.repo.ListLookups(ctx)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lookups = lookups
}

func (u *LookupsUsecase) Current() models.Lookups {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lookups
}
