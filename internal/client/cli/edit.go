package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jb04032000/offline-notes/internal/client/notes"
)

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: offline-notes edit <id>")
	}
	localID := args[0]

	note, err := c.notesService.Get(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	c.io.Println("=== Edit Note ===")
	c.io.Println()
	c.io.Printf("Editing %q. Press Enter to keep the current value.\n", note.Title)
	c.io.Println()

	var updates notes.Updates

	title, err := c.io.ReadInput(fmt.Sprintf("Title [%s]: ", note.Title))
	if err != nil {
		return fmt.Errorf("failed to read title: %w", err)
	}
	if title != "" {
		updates.Title = &title
	}

	content, err := c.io.ReadInput(fmt.Sprintf("Content [%s]: ", note.Content))
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if content != "" {
		updates.Content = &content
	}

	tagsInput, err := c.io.ReadInput(fmt.Sprintf("Tags [%s] ('-' to clear): ", strings.Join(note.Tags, ", ")))
	if err != nil {
		return fmt.Errorf("failed to read tags: %w", err)
	}
	switch tagsInput {
	case "":
	case "-":
		updates.Tags = []string{}
	default:
		updates.Tags = splitTags(tagsInput)
	}

	updated, err := c.notesService.Edit(ctx, localID, updates)
	if err != nil {
		return fmt.Errorf("failed to edit note: %w", err)
	}

	c.io.Println()
	c.io.Printf("✓ Note updated locally (version %d)\n", updated.Version)

	c.scheduler.TrySync(ctx)

	return nil
}
