package cli

import (
	"context"
	"fmt"
	"os"
)

func (c *Cli) Run(ctx context.Context, command string, args []string) {
	var err error

	switch command {
	case "add":
		err = c.runAdd(ctx)
	case "edit":
		err = c.runEdit(ctx, args)
	case "delete":
		err = c.runDelete(ctx, args)
	case "get":
		err = c.runGet(ctx, args)
	case "list":
		err = c.runList(ctx)
	case "sync":
		err = c.runSync(ctx)
	case "refresh":
		err = c.runRefresh(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "watch":
		err = c.runWatch(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
