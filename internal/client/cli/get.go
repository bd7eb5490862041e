package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing note id. Usage: offline-notes get <id>")
	}
	localID := args[0]

	note, err := c.notesService.Get(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to load note: %w", err)
	}

	c.io.Println("=== Note Details ===")
	c.io.Println()
	c.io.Printf("Title:    %s\n", note.Title)
	if note.Content != "" {
		c.io.Printf("Content:  %s\n", note.Content)
	}
	if len(note.Tags) > 0 {
		c.io.Printf("Tags:     %s\n", strings.Join(note.Tags, ", "))
	}
	c.io.Printf("ID:       %s\n", note.LocalID)
	if note.ServerID != nil {
		c.io.Printf("Server:   #%d\n", *note.ServerID)
	}
	c.io.Printf("Version:  %d\n", note.Version)
	c.io.Printf("Created:  %s\n", note.CreatedAt.Local().Format(time.RFC3339))
	c.io.Printf("Updated:  %s\n", note.UpdatedAt.Local().Format(time.RFC3339))
	c.io.Println()

	switch {
	case note.DeletePending:
		c.io.Println("⚠️  Deletion pending, waiting for the server")
	case note.Pending():
		c.io.Println("⚠️  Local changes not yet synchronized")
	default:
		c.io.Println("✓ Synchronized with server")
	}

	return nil
}
