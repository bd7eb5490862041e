package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runAdd(ctx context.Context) error {
	c.io.Println("=== Add Note ===")
	c.io.Println()

	title, err := c.io.ReadInput("Title: ")
	if err != nil {
		return fmt.Errorf("failed to read title: %w", err)
	}

	content, err := c.io.ReadInput("Content: ")
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	tagsInput, err := c.io.ReadInput("Tags (comma separated, optional): ")
	if err != nil {
		return fmt.Errorf("failed to read tags: %w", err)
	}

	note, err := c.notesService.Submit(ctx, title, content, splitTags(tagsInput))
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	c.io.Println()
	c.io.Printf("✓ Note saved locally (id: %s)\n", note.LocalID)

	// Best effort: the note is durable either way
	c.scheduler.TrySync(ctx)

	return nil
}
