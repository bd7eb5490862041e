package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: offline-notes delete <id>")
	}
	localID := args[0]

	if err := c.notesService.Delete(ctx, localID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	c.io.Println("✓ Note deleted locally")

	c.scheduler.TrySync(ctx)

	return nil
}
