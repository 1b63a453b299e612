package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/olivierh59500/clustergraph/cmd"
)

func main() {
	// Interrupt cancels headless runs between ticks
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
