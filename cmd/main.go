package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shelfsmart/internal/common"
	"shelfsmart/internal/config"
	"shelfsmart/internal/logger"
)

const version = "1.0.0"

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"login", "Log in and store the session", runLogin},
	{"logout", "Clear the stored session", runLogout},
	{"register", "Create a user account", runRegister},
	{"whoami", "Show the stored session", runWhoami},
	{"inventory", "List, add, edit or delete inventory items", runInventory},
	{"consume", "Consume quantity from an item", runConsume},
	{"suppliers", "List, add, edit or delete suppliers", runSuppliers},
	{"activity", "Show the user activity log", runActivity},
	{"report", "Show or download a stock report", runReport},
	{"notify", "Show low-stock and expiry counts", runNotify},
	{"suggestions", "Show AI restock suggestions", runSuggestions},
	{"serve", "Run the dashboard view server", runServe},
}

func usage() {
	fmt.Fprintf(os.Stderr, "shelfsmart %s\n\nUsage: shelfsmart <command> [flags]\n\nCommands:\n", version)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr, "\nRun 'shelfsmart <command> -h' for command flags.")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == os.Args[1] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if common.IsAuthError(err) {
			fmt.Fprintln(os.Stderr, "Error: session expired or missing. Run 'shelfsmart login'.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
