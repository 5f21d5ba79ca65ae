// Package main is the entry point for the solar-proposal CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"solar-proposal/cmd/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
