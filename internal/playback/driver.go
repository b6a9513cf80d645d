package playback

import (
	"context"
	"log/slog"
	"time"
)

// Driver invokes Tick at a fixed cadence while the service runs. The player
// ignores ticks outside of playing, so the driver never needs to observe
// session state or race its transitions.
type Driver struct {
	Player   *Player
	Interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func (d *Driver) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go d.loop(ctx)
	slog.Info("tick driver started", "interval", d.Interval)
}

func (d *Driver) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
	slog.Info("tick driver stopped")
}

func (d *Driver) loop(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Player.Tick()
		}
	}
}
