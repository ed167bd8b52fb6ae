// Command summarize prints the summary of a text file or of stdin.
//
//	summarize [file] [--sentences N] [--mode auto|local|lead] [--config summary.yaml] [--provider none|openai|claude]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
