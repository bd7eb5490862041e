package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jb04032000/offline-notes/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()
	c.io.Println("Pushing queued changes to server...")

	result, err := c.scheduler.RunScheduledSync(ctx)
	if err != nil {
		if errors.Is(err, sync.ErrInFlight) {
			c.io.Println("A synchronization pass is already running.")
			return nil
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	if result.Failed > 0 {
		c.io.Printf("⚠️  Delivered %d change(s), %d failed, %d still queued\n",
			result.Delivered, result.Failed, result.Remaining)
		c.io.Println("Failed changes stay queued and will be retried on the next sync.")
		return nil
	}

	if result.Delivered == 0 {
		c.io.Println("✓ Nothing to synchronize")
		return nil
	}

	c.io.Printf("✓ Delivered %d change(s)\n", result.Delivered)
	return nil
}
