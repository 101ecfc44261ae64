package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"economy/cmd"
	"economy/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(os.Args[2:]); err != nil {
				log.Fatal("Migration error: ", err)
			}
			return
		case "credit":
			if err := handleCreditCommand(os.Args[2:]); err != nil {
				log.Fatal("Credit error: ", err)
			}
			return
		}
	}

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: economy migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

func handleCreditCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: economy credit <guild-id> <user-id> <amount> [reason]")
	}

	ids := make([]int64, 3)
	for i, name := range []string{"guild-id", "user-id", "amount"} {
		v, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, args[i], err)
		}
		ids[i] = v
	}

	reason := "cli"
	if len(args) > 3 {
		reason = strings.Join(args[3:], " ")
	}
	return cmd.Credit(context.Background(), ids[0], ids[1], ids[2], reason)
}
