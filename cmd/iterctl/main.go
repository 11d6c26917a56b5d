package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amp-labs/amp-iterator/cli"
	"github.com/amp-labs/amp-iterator/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, os.Interrupt)

	err := cli.NewCLI().Run(ctx, os.Args[1:])

	cancel()

	if err != nil {
		logger.Get(ctx).Error("iterctl failed", "error", err)
		os.Exit(1)
	}
}
