package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/vantail/collectroom/internal/event"
	"github.com/vantail/collectroom/internal/logger"
)

// ExpirySweeper periodically marks overdue pending grants as expired so a
// claim link dies server-side even if nobody ever opens it again.
type ExpirySweeper struct {
	store    Store
	bus      event.Bus
	interval time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewExpirySweeper creates a sweeper that runs every interval.
func NewExpirySweeper(store Store, bus event.Bus, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		store:    store,
		bus:      bus,
		interval: interval,
		shutdown: make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately so a restart
// does not leave overdue grants claimable for a full interval.
func (w *ExpirySweeper) Start() {
	log := logger.FromContext(context.Background())
	log.Info(LogMsgSweepStarted, "interval", w.interval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.sweep()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-w.shutdown:
				return
			}
		}
	}()
}

// Stop shuts the sweeper down, waiting for an in-flight sweep until ctx
// expires.
func (w *ExpirySweeper) Stop(ctx context.Context) error {
	log := logger.FromContext(ctx)
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgSweepStopped)
		return nil
	case <-ctx.Done():
		log.Warn("Transfer expiry sweeper shutdown timeout")
		return ctx.Err()
	}
}

func (w *ExpirySweeper) sweep() {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	expired, err := w.store.ExpireDue(ctx, time.Now())
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Info(LogMsgTransfersExpired, "count", len(expired))
	for _, grant := range expired {
		if err := w.bus.Publish(ctx, event.NewTransferEvent(event.TransferExpired, grant)); err != nil {
			log.Error("Failed to publish transfer expired event", "error", err, "transfer_id", grant.ID)
		}
	}
}
