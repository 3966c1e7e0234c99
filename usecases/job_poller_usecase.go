package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/utils"
)

// DefaultPollInterval is how often tracked records are re-fetched while any
// are still processing.
const DefaultPollInterval = 2500 * time.Millisecond

type pollLogsRepository interface {
	PollLog(ctx context.Context, id int64) (models.LogRecordDelta, error)
}

type recordMerger interface {
	Generation() uint64
	MergeDelta(gen uint64, delta models.LogRecordDelta) bool
}

// JobStatusPoller watches the records created by an upload until the
// backend pipeline finishes with them. While the tracked set is non-empty it
// re-fetches every tracked id on a fixed interval and merges the results
// into the displayed list; ids whose two statuses are both terminal leave
// the set. When the set empties the timer stops until new ids arrive.
//
// A fetch failure for one id never blocks the others and is never surfaced:
// the id simply stays tracked and is retried next tick. This means a record
// deleted out-of-band while tracked is polled until the owning view goes
// away; there is deliberately no retry limit to silently drop a stuck job.
type JobStatusPoller struct {
	repo     pollLogsRepository
	list     recordMerger
	interval time.Duration

	mu      sync.Mutex
	tracked *set.Set[int64]
	cancel  context.CancelFunc
	wake    chan struct{}
}

func NewJobStatusPoller(repo pollLogsRepository, list recordMerger, interval time.Duration) *JobStatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &JobStatusPoller{
		repo:     repo,
		list:     list,
		interval: interval,
		tracked:  set.New[int64](0),
		wake:     make(chan struct{}, 1),
	}
}

// Track adds freshly uploaded record ids to the watch set (duplicates
// collapse) and wakes the polling loop if it is idle.
func (p *JobStatusPoller) Track(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	p.mu.Lock()
	p.tracked.InsertSlice(ids)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// TrackedIds returns the ids still being watched.
func (p *JobStatusPoller) TrackedIds() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := p.tracked.Slice()
	return ids
}

func (p *JobStatusPoller) TrackedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracked.Size()
}

// Start launches the polling loop, bound to ctx and to Stop. Calling Start
// twice is a no-op.
func (p *JobStatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	go p.run(ctx)
}

// Stop tears the loop down; no merges are applied afterwards. Idempotent.
func (p *JobStatusPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *JobStatusPoller) run(ctx context.Context) {
	for {
		// Idle until there is something to poll; no timer runs while the
		// tracked set is empty.
		if p.TrackedCount() == 0 {
			select {
			case <-ctx.Done():
				return
			case <-p.wake:
			}
		}

		ticker := time.NewTicker(p.interval)
		for p.TrackedCount() > 0 {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				p.Tick(ctx)
			}
		}
		ticker.Stop()
	}
}

// Tick runs one polling round: fetch every tracked id in parallel, merge
// what came back, and drop ids whose processing finished.
func (p *JobStatusPoller) Tick(ctx context.Context) {
	ids := p.TrackedIds()
	if len(ids) == 0 {
		return
	}
	logger := utils.LoggerFromContext(ctx)

	// The generation is read before fetching: if a full reload lands while
	// fetches are in flight, it is the newer ground truth and the merger
	// drops these updates.
	gen := p.list.Generation()

	deltas := make([]*models.LogRecordDelta, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			delta, err := p.repo.PollLog(groupCtx, id)
			if err != nil {
				// No update this round; the id stays tracked and is retried
				// on the next tick.
				logger.DebugContext(groupCtx, "status poll failed for record",
					"log_id", id, "error", err.Error())
				return nil
			}
			deltas[i] = &delta
			return nil
		})
	}
	_ = group.Wait()

	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, delta := range deltas {
		if delta == nil {
			continue
		}
		p.list.MergeDelta(gen, *delta)
		if delta.ProcessingComplete() {
			p.tracked.Remove(delta.Id)
			logger.DebugContext(ctx, "record finished processing", "log_id", delta.Id)
		}
	}
}
