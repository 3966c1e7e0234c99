package usecases

import (
	"context"
	"sync"

	"github.com/pitwall/logdeck/models"
)

type exportLogsRepository interface {
	ExportLogs(ctx context.Context, request models.ExportRequest) (models.ExportResult, error)
}

// ExportDialogUsecase drives a bulk export over the id snapshot taken when
// the dialog opened. Format and resample rate are chosen in the dialog; the
// rate only applies to resampled formats and is dropped for raw mcap.
type ExportDialogUsecase struct {
	repo exportLogsRepository

	mu         sync.Mutex
	open       bool
	inProgress bool
	ids        []int64
	format     models.DownloadFormat
	resampleHz int64
	err        error
}

type ExportDialogState struct {
	Open       bool
	InProgress bool
	Ids        []int64
	Format     models.DownloadFormat
	ResampleHz int64
	Err        error
}

func NewExportDialogUsecase(repo exportLogsRepository) *ExportDialogUsecase {
	return &ExportDialogUsecase{repo: repo}
}

// Open arms the dialog for the given ids with the default format and rate.
func (u *ExportDialogUsecase) Open(ids []int64) {
	if len(ids) == 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = true
	u.ids = append([]int64(nil), ids...)
	u.format = models.FormatMcap
	u.resampleHz = models.DefaultResampleRate
	u.err = nil
}

func (u *ExportDialogUsecase) SetFormat(format models.DownloadFormat) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.format = format
}

func (u *ExportDialogUsecase) SetResampleRate(hz int64) error {
	if err := models.ValidateResampleRate(hz); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.resampleHz = hz
	return nil
}

// Run performs the export with the chosen options. The dialog stays open on
// failure with an inline error and closes on success.
func (u *ExportDialogUsecase) Run(ctx context.Context) (models.ExportResult, error) {
	u.mu.Lock()
	request, err := models.NewExportRequest(u.ids, u.format, u.resampleHz)
	if err != nil {
		u.err = err
		u.mu.Unlock()
		return models.ExportResult{}, err
	}
	u.inProgress = true
	u.err = nil
	u.mu.Unlock()

	result, err := u.repo.ExportLogs(ctx, request)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.inProgress = false
	if err != nil {
		u.err = err
		return models.ExportResult{}, err
	}
	u.open = false
	return result, nil
}

func (u *ExportDialogUsecase) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.open = false
	u.err = nil
}

func (u *ExportDialogUsecase) State() ExportDialogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return ExportDialogState{
		Open:       u.open,
		InProgress: u.inProgress,
		Ids:        append([]int64(nil), u.ids...),
		Format:     u.format,
		ResampleHz: u.resampleHz,
		Err:        u.err,
	}
}
