package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()

	lastSyncAt, err := c.metadata.GetLastSyncAt(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync metadata: %w", err)
	}

	if lastSyncAt.IsZero() {
		c.io.Println("Last sync: never")
	} else {
		c.io.Printf("Last sync: %s (%s ago)\n",
			lastSyncAt.Local().Format(time.RFC3339),
			time.Since(lastSyncAt).Round(time.Second))

		succeeded, err := c.metadata.GetLastSyncResult(ctx)
		if err != nil {
			return fmt.Errorf("failed to read sync metadata: %w", err)
		}
		if succeeded {
			c.io.Println("Result:    ✓ succeeded")
		} else {
			c.io.Println("Result:    ⚠️  failed, changes still queued")
		}
	}

	pending, err := c.notesService.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending changes: %w", err)
	}

	c.io.Println()
	if pending > 0 {
		c.io.Printf("⚠️  %d change(s) waiting to be synchronized\n", pending)
		c.io.Println("Run 'offline-notes sync' to push them now.")
	} else {
		c.io.Println("✓ All changes synchronized with server")
	}

	return nil
}
