package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"

	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/utils"
)

// DefaultProbeInterval is how often the backend liveness indicator is
// refreshed.
const DefaultProbeInterval = 15 * time.Second

type BackendStatus string

const (
	BackendChecking     BackendStatus = "checking"
	BackendConnected    BackendStatus = "connected"
	BackendDisconnected BackendStatus = "disconnected"
)

type probeRepository interface {
	Probe(ctx context.Context) bool
}

// StatusProbeUsecase keeps a connected/disconnected indicator fresh on its
// own timer, independent of list and poll traffic. A failed probe is
// retried once before the indicator flips to disconnected; a probe never
// raises an error.
type StatusProbeUsecase struct {
	repo     probeRepository
	clk      clock.Clock
	interval time.Duration

	mu        sync.Mutex
	status    BackendStatus
	checkedAt time.Time
	cancel    context.CancelFunc
}

func NewStatusProbeUsecase(repo probeRepository, clk clock.Clock, interval time.Duration) *StatusProbeUsecase {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &StatusProbeUsecase{
		repo:     repo,
		clk:      clk,
		interval: interval,
		status:   BackendChecking,
	}
}

// Start probes immediately, then on every interval until ctx is cancelled
// or Stop is called. Calling Start twice is a no-op.
func (u *StatusProbeUsecase) Start(ctx context.Context) {
	u.mu.Lock()
	if u.cancel != nil {
		u.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.mu.Unlock()

	go func() {
		u.Check(ctx)
		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				u.Check(ctx)
			}
		}
	}()
}

// Stop halts the timer. Idempotent.
func (u *StatusProbeUsecase) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
}

// Check runs one probe and updates the indicator.
func (u *StatusProbeUsecase) Check(ctx context.Context) BackendStatus {
	err := retry.Do(
		func() error {
			if !u.repo.Probe(ctx) {
				return errors.New("backend unreachable")
			}
			return nil
		},
		retry.Attempts(2),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	status := BackendConnected
	if err != nil {
		status = BackendDisconnected
		utils.LoggerFromContext(ctx).DebugContext(ctx, "backend liveness probe failed")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.checkedAt = u.clk.Now()
	return status
}

func (u *StatusProbeUsecase) Status() BackendStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

func (u *StatusProbeUsecase) LastCheckedAt() time.Time {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.checkedAt
}
