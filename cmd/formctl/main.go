package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"dynform/internal/cli"
	"dynform/internal/logger"
)

func main() {
	if l, err := logger.New(os.Getenv("DYNFORM_LOG_LEVEL"), true); err == nil {
		logger.Set(l)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "formctl:", err)
		os.Exit(1)
	}
}
