package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runList(ctx context.Context) error {
	c.io.Println("=== Saved Notes ===")
	c.io.Println()

	allNotes, err := c.notesService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(allNotes) == 0 {
		c.io.Println("No notes found.")
		c.io.Println()
		c.io.Println("Use 'offline-notes add' to create your first note.")
		return nil
	}

	c.io.Printf("Found %d note(s):\n", len(allNotes))
	c.io.Println()

	for i, note := range allNotes {
		marker := "✓"
		switch {
		case note.DeletePending:
			marker = "✗"
		case note.Pending():
			marker = "…"
		}

		c.io.Printf("%d. %s %s\n", i+1, marker, note.Title)
		c.io.Printf("   ID:      %s\n", note.LocalID)
		if len(note.Tags) > 0 {
			c.io.Printf("   Tags:    %s\n", strings.Join(note.Tags, ", "))
		}
		c.io.Printf("   Updated: %s\n", note.UpdatedAt.Local().Format("2006-01-02 15:04"))
		c.io.Println()
	}

	c.io.Println("✓ synchronized   … pending sync   ✗ pending deletion")

	return nil
}
