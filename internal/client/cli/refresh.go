package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jb04032000/offline-notes/internal/client/sync"
)

func (c *Cli) runRefresh(ctx context.Context) error {
	c.io.Println("=== Refresh ===")
	c.io.Println()
	c.io.Println("Reconciling local notes with server...")

	result, err := c.reconciler.Run(ctx)
	if err != nil {
		if errors.Is(err, sync.ErrOffline) {
			c.io.Println("Server unreachable, local notes left as-is.")
			return nil
		}
		if errors.Is(err, sync.ErrInFlight) {
			c.io.Println("A synchronization pass is already running.")
			return nil
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	c.io.Println()
	c.io.Printf("✓ Refresh complete: %d pushed, %d pulled, %d conflict(s) resolved, %d removed\n",
		result.Pushed, result.Pulled, result.Conflicts, result.Purged)
	if result.Skipped > 0 {
		c.io.Printf("⚠️  %d note(s) skipped due to errors; run refresh again\n", result.Skipped)
	}

	return nil
}
