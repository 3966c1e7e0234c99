package usecases

import (
	"context"

	"github.com/pitwall/logdeck/repositories"
)

type uploadLogsRepository interface {
	UploadLogs(ctx context.Context, files []repositories.UploadFile) ([]int64, error)
}

type idTracker interface {
	Track(ids ...int64)
}

type listReloader interface {
	Reload(ctx context.Context)
}

// UploadUsecase submits capture files and hands the created ids to the
// status poller, so the new rows keep updating until processing finishes.
type UploadUsecase struct {
	repo   uploadLogsRepository
	poller idTracker
	list   listReloader
}

func NewUploadUsecase(repo uploadLogsRepository, poller idTracker, list listReloader) *UploadUsecase {
	return &UploadUsecase{
		repo:   repo,
		poller: poller,
		list:   list,
	}
}

// Upload submits the files, tracks the returned ids and reloads the list so
// the new records appear immediately (still pending).
func (u *UploadUsecase) Upload(ctx context.Context, files []repositories.UploadFile) ([]int64, error) {
	ids, err := u.repo.UploadLogs(ctx, files)
	if err != nil {
		return nil, err
	}
	u.poller.Track(ids...)
	u.list.Reload(ctx)
	return ids, nil
}
