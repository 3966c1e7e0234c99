package usecases

import (
	"context"
	"sync"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/utils"
)

type geoJsonRepository interface {
	GetGeoJson(ctx context.Context, id int64) (models.GeoFeatureCollection, error)
}

// MapDialogUsecase loads the recovered GPS track for one record. Geometry
// problems never escape the dialog: a failed or malformed fetch shows an
// empty map instead of an error.
type MapDialogUsecase struct {
	repo geoJsonRepository

	mu       sync.Mutex
	open     bool
	loading  bool
	id       int64
	features models.GeoFeatureCollection
}

type MapDialogState struct {
	Open     bool
	Loading  bool
	Id       int64
	Features models.GeoFeatureCollection
}

func NewMapDialogUsecase(repo geoJsonRepository) *MapDialogUsecase {
	return &MapDialogUsecase{repo: repo}
}

func (u *MapDialogUsecase) Open(ctx context.Context, id int64) {
	u.mu.Lock()
	u.open = true
	u.loading = true
	u.id = id
	u.features = models.GeoFeatureCollection{}
	u.mu.Unlock()

	features, err := u.repo.GetGeoJson(ctx, id)
	if err != nil {
		utils.LoggerFromContext(ctx).DebugContext(ctx, "geojson fetch failed",
			"log_id", id, "error", err.Error())
		features = models.GeoFeatureCollection{}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.loading = false
	u.features = features
}

func (u *MapDialogUsecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = false
	u.features = models.GeoFeatureCollection{}
}

func (u *MapDialogUsecase) State() MapDialogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return MapDialogState{Open: u.open, Loading: u.loading, Id: u.id, Features: u.features}
}
