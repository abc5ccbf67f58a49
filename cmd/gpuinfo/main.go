package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	styledOutput = term.IsTerminal(int(os.Stdout.Fd()))
	code := execute(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
