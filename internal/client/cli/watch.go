package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jb04032000/offline-notes/internal/client/sync"
)

const defaultWatchInterval = 30 * time.Second

// runWatch keeps the client resident: the scheduler listens for periodic
// triggers and every completed pass is reported through the event stream.
func (c *Cli) runWatch(ctx context.Context, args []string) error {
	interval := defaultWatchInterval
	if len(args) > 0 {
		parsed, err := time.ParseDuration(args[0])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid interval %q", args[0])
		}
		interval = parsed
	}

	statuses, unsubscribe := c.events.Subscribe()
	defer unsubscribe()

	triggers := make(chan sync.Trigger, 1)
	go func() {
		defer close(triggers)

		// Immediate first pass, then the schedule takes over
		triggers <- sync.TriggerManual

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case triggers <- sync.TriggerScheduled:
				default:
				}
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.scheduler.Listen(ctx, triggers)
	}()

	c.io.Printf("Watching for changes, syncing every %s. Press Ctrl+C to stop.\n", interval)

	for {
		select {
		case <-done:
			return nil
		case status, ok := <-statuses:
			if !ok {
				<-done
				return nil
			}
			if status.Syncing {
				continue
			}
			if status.Succeeded {
				c.io.Println("✓ Sync pass completed")
			} else {
				c.io.Println("⚠️  Sync pass failed, changes remain queued")
			}
		}
	}
}
