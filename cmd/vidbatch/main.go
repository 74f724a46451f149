package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vidbatch/internal/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.ExitCode(cmd.Execute(ctx), os.Stderr)
	stop()
	os.Exit(code)
}
