package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/slotgraph/internal/app"
	"github.com/specialistvlad/slotgraph/internal/cli"
	"github.com/specialistvlad/slotgraph/internal/hcl_adapter"
)

// main is the entrypoint for the slotgraph application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// A panicking transform is caught per node; this guards startup and teardown.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panicked: %v", r)
		}
	}()

	loader := hcl_adapter.NewLoader()
	slotgraphApp, err := app.NewApp(outW, appConfig, loader)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer func() {
		err = errors.Join(err, slotgraphApp.Close(context.WithoutCancel(ctx)))
	}()

	_, err = slotgraphApp.Run(ctx)
	return err
}
