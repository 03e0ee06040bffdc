package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/misterclayt0n/stretchcoach/internal/coach"
	"github.com/misterclayt0n/stretchcoach/internal/display"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
	"github.com/misterclayt0n/stretchcoach/internal/session"
)

type sessionParams struct {
	library      pose.Library
	modelURL     string
	in           io.Reader
	out          io.Writer
	autoStart    bool
	exitOnFinish bool
}

// runSession wires adapter, machine and renderer and blocks until the
// session ends or the process is interrupted.
func runSession(ctx context.Context, p sessionParams) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := pose.NewAdapter(pose.AdapterOptions{
		Library:  p.library,
		ModelURL: p.modelURL,
		Logger:   logger,
	})
	machine := coach.New(models.DefaultRoutine(), coach.WithLogger(logger))
	renderer := display.NewRenderer(p.out, verbose)

	starts := make(chan struct{}, 1)
	if p.in != nil {
		go readStarts(ctx, p.in, starts, stop)
	}

	runner := session.NewRunner(session.Options{
		Adapter:      adapter,
		Machine:      machine,
		Presenter:    renderer,
		Logger:       logger,
		Starts:       starts,
		AutoStart:    p.autoStart,
		ExitOnFinish: p.exitOnFinish,
	})

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("Session failed: %w", err)
	}
	return nil
}

// readStarts turns Enter presses into start requests; "q" quits.
func readStarts(ctx context.Context, in io.Reader, starts chan<- struct{}, quit context.CancelFunc) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
			quit()
			return
		}
		select {
		case starts <- struct{}{}:
		case <-ctx.Done():
			return
		default:
			// A start is already pending.
		}
	}
}
