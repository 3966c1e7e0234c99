package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/logdeck/models"
)

type funcExportRepo struct {
	requests []models.ExportRequest
	result   models.ExportResult
	err      error
}

func (r *funcExportRepo) ExportLogs(ctx context.Context, request models.ExportRequest) (models.ExportResult, error) {
	r.requests = append(r.requests, request)
	return r.result, r.err
}

func TestExportDialogUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("opens with raw mcap and the default rate", func(t *testing.T) {
		u := NewExportDialogUsecase(&funcExportRepo{})
		u.Open([]int64{1, 2})

		state := u.State()
		assert.True(t, state.Open)
		assert.Equal(t, models.FormatMcap, state.Format)
		assert.Equal(t, models.DefaultResampleRate, state.ResampleHz)
	})

	t.Run("rejects a rate outside the offered set", func(t *testing.T) {
		u := NewExportDialogUsecase(&funcExportRepo{})
		u.Open([]int64{1})
		assert.Error(t, u.SetResampleRate(33))
		assert.NoError(t, u.SetResampleRate(50))
		assert.Equal(t, int64(50), u.State().ResampleHz)
	})

	t.Run("raw mcap export carries no resample rate", func(t *testing.T) {
		repo := &funcExportRepo{result: models.ExportResult{FileName: "mcap_logs_mcap.zip"}}
		u := NewExportDialogUsecase(repo)
		u.Open([]int64{2, 1})

		result, err := u.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, "mcap_logs_mcap.zip", result.FileName)
		require.Len(t, repo.requests, 1)
		assert.Equal(t, []int64{2, 1}, repo.requests[0].Ids)
		assert.False(t, repo.requests[0].ResampleHz.Valid)
		assert.False(t, u.State().Open)
	})

	t.Run("resampled formats carry the chosen rate", func(t *testing.T) {
		repo := &funcExportRepo{}
		u := NewExportDialogUsecase(repo)
		u.Open([]int64{1})
		u.SetFormat(models.FormatCsvTvn)
		require.NoError(t, u.SetResampleRate(50))

		_, err := u.Run(ctx)
		require.NoError(t, err)
		require.Len(t, repo.requests, 1)
		assert.Equal(t, models.FormatCsvTvn, repo.requests[0].Format)
		assert.Equal(t, int64(50), repo.requests[0].ResampleHz.Int64)
		assert.True(t, repo.requests[0].ResampleHz.Valid)
	})

	t.Run("a failed export keeps the dialog open with an inline error", func(t *testing.T) {
		repo := &funcExportRepo{err: errors.Wrap(models.TransportError, "backend down")}
		u := NewExportDialogUsecase(repo)
		u.Open([]int64{1})

		_, err := u.Run(ctx)
		require.Error(t, err)
		state := u.State()
		assert.True(t, state.Open)
		assert.False(t, state.InProgress)
		assert.Error(t, state.Err)
	})
}

func TestMapDialogUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the track on open", func(t *testing.T) {
		features := models.GeoFeatureCollection{
			Type: "FeatureCollection",
			Features: []models.GeoFeature{{
				Type: "Feature",
				Geometry: &models.GeoGeometry{
					Type:        "LineString",
					Coordinates: json.RawMessage(`[[7.0,43.7],[7.1,43.8]]`),
				},
			}},
		}
		u := NewMapDialogUsecase(&funcGeoRepo{features: features})
		u.Open(ctx, 7)

		state := u.State()
		assert.True(t, state.Open)
		assert.False(t, state.Loading)
		assert.Len(t, state.Features.Features, 1)
	})

	t.Run("a geometry failure shows an empty map instead of an error", func(t *testing.T) {
		u := NewMapDialogUsecase(&funcGeoRepo{err: errors.New("decode failed")})
		u.Open(ctx, 7)

		state := u.State()
		assert.True(t, state.Open)
		assert.False(t, state.Loading)
		assert.Empty(t, state.Features.Features)
	})
}

type funcGeoRepo struct {
	features models.GeoFeatureCollection
	err      error
}

func (r *funcGeoRepo) GetGeoJson(ctx context.Context, id int64) (models.GeoFeatureCollection, error) {
	return r.features, r.err
}
