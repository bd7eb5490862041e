package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jb04032000/offline-notes/internal/client/api"
	"github.com/jb04032000/offline-notes/internal/client/cli"
	"github.com/jb04032000/offline-notes/internal/client/iocli"
	"github.com/jb04032000/offline-notes/internal/client/notes"
	"github.com/jb04032000/offline-notes/internal/client/queue"
	"github.com/jb04032000/offline-notes/internal/client/storage/boltdb"
	"github.com/jb04032000/offline-notes/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOr("NOTES_SERVER_URL", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", envOr("NOTES_DB_PATH", "offline-notes.db"), "Path to local database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)

	mutationQueue := queue.New(boltStorage, logger)
	notesService := notes.NewService(boltStorage, mutationQueue, logger)

	gate := sync.NewGate()
	events := sync.NewBroadcaster()
	scheduler := sync.NewScheduler(apiClient, boltStorage, mutationQueue, boltStorage, gate, events, logger)
	reconciler := sync.NewReconciler(apiClient, boltStorage, boltStorage, gate, events, logger)

	c := cli.New(notesService, scheduler, reconciler, boltStorage, events, iocli.NewStdio())
	c.Run(ctx, command, args[1:])
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("Offline Notes Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
