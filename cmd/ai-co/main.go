package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugo-lorenzo-mato/ai-consensus/cmd/ai-co/cmd"
)

// Version information - set by goreleaser at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)

	// Interrupts cancel in-flight tools; their process groups are killed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
