package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"example.com/scoreboard/internal/config"
	"example.com/scoreboard/internal/scoreboard"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	board *scoreboard.Board

	in  io.Reader
	out io.Writer
}

type Options struct {
	In  io.Reader // optional; os.Stdin if nil
	Out io.Writer // optional; os.Stdout if nil
}

// NewLogger builds the process logger from cfg.Log.
func NewLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

func New(cfg config.Config, log *slog.Logger, opts Options) *App {
	if log == nil {
		log = slog.Default()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &App{
		cfg:   cfg,
		log:   log,
		board: scoreboard.NewBoard(scoreboard.Options{Logger: log}),
		in:    opts.In,
		out:   opts.Out,
	}
}

func (a *App) Board() *scoreboard.Board {
	return a.board
}

// Run applies the command feed until it ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("scoreboard feed starting", "env", a.cfg.Env, "summaryInterval", a.cfg.Summary.Interval)

	g.Go(func() error {
		defer cancel()
		return a.runFeed(gctx)
	})

	if a.cfg.Summary.Interval > 0 {
		g.Go(func() error {
			a.pollSummary(gctx, a.cfg.Summary.Interval)
			return nil
		})
	}

	err := g.Wait()
	a.log.Info("scoreboard feed stopped", "ongoing", a.board.Len())
	return err
}

func (a *App) pollSummary(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.logSummary()
		}
	}
}

func (a *App) logSummary() {
	summary := a.board.Summary()
	lines := make([]string, len(summary))
	for i, m := range summary {
		lines[i] = m.String()
	}
	a.log.Info("summary", "ongoing", len(summary), "matches", lines)
}
