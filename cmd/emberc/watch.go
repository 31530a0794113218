package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/emberlang/emberc/internal/driver"
)

// watchCommand re-runs the driver on every filesystem change until the
// process receives SIGINT/SIGTERM, mirroring the teacher's
// signal.Notify-based graceful shutdown in its server/mcp commands.
func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	drv := buildDriver(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	onResult := func(result *driver.RunResult) {
		errCount := 0
		for _, fi := range result.All {
			if fi.ParseResult != nil {
				errCount += len(fi.ParseResult.Errors)
			}
		}
		fmt.Printf("%d files tracked, %d (re)parsed, %d error(s)\n", len(result.All), len(result.Changed), errCount)
	}
	onError := func(err error) {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
	}

	if err := drv.Watch(ctx, onResult, onError); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
