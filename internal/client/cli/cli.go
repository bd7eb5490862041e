package cli

import (
	"fmt"

	"github.com/jb04032000/offline-notes/internal/client/iocli"
	"github.com/jb04032000/offline-notes/internal/client/notes"
	"github.com/jb04032000/offline-notes/internal/client/storage"
	"github.com/jb04032000/offline-notes/internal/client/sync"
)

type Cli struct {
	notesService *notes.Service
	scheduler    *sync.Scheduler
	reconciler   *sync.Reconciler
	metadata     storage.MetadataStorage
	events       *sync.Broadcaster
	io           iocli.IO
}

func New(
	notesService *notes.Service,
	scheduler *sync.Scheduler,
	reconciler *sync.Reconciler,
	metadata storage.MetadataStorage,
	events *sync.Broadcaster,
	io iocli.IO,
) *Cli {
	return &Cli{
		notesService: notesService,
		scheduler:    scheduler,
		reconciler:   reconciler,
		metadata:     metadata,
		events:       events,
		io:           io,
	}
}

func PrintUsage() {
	fmt.Println("Offline Notes Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  offline-notes [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version       Show version information")
	fmt.Println("  --server URL    Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH       Path to local database (default: offline-notes.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add                     Add a new note")
	fmt.Println("  edit <id>               Edit a note")
	fmt.Println("  delete <id>             Delete a note")
	fmt.Println("  get <id>                Show full note details")
	fmt.Println("  list                    List saved notes")
	fmt.Println("  sync                    Push queued changes to the server")
	fmt.Println("  refresh                 Reconcile local notes with the server")
	fmt.Println("  status                  Show sync status")
	fmt.Println("  watch [interval]        Stay resident and sync on a schedule (default: 30s)")
	fmt.Println()
	fmt.Println("Notes are always written locally first. Changes made while the")
	fmt.Println("server is unreachable are queued and pushed on the next sync.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  offline-notes add")
	fmt.Println("  offline-notes list")
	fmt.Println("  offline-notes refresh")
}
