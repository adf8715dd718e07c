package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizbank/internal/screen"
	"github.com/abhisek/quizbank/internal/screens/history"
	"github.com/abhisek/quizbank/internal/screens/home"
	practicescreen "github.com/abhisek/quizbank/internal/screens/practice"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/stats"
)

// backend serves the home screen from the practice service and the store.
type backend struct {
	opts Options
}

var _ home.Backend = (*backend)(nil)

func (b *backend) Overview(ctx context.Context) (home.Overview, error) {
	var ov home.Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := stats.Load(gctx, b.opts.Sources, b.opts.UserID, b.opts.Clock.Now(), b.opts.Stats)
		ov.Dashboard = d
		return err
	})
	g.Go(func() error {
		snap, err := b.opts.Service.ResumeCandidate(gctx, b.opts.UserID)
		ov.Resume = snap
		return err
	})
	g.Go(func() error {
		list, err := b.opts.Templates.List(gctx, b.opts.UserID)
		ov.Templates = list
		return err
	})
	if err := g.Wait(); err != nil {
		return home.Overview{}, err
	}
	return ov, nil
}

func (b *backend) Discard(ctx context.Context, sessionID string) error {
	return b.opts.Service.Discard(ctx, sessionID)
}

func (b *backend) Practice(cfg session.Config) screen.Screen {
	start := practicescreen.FromSelection(b.opts.Service, b.opts.UserID, cfg)
	return practicescreen.New(start, b.opts.Logger).WithTemplateSaver(b.saveTemplate)
}

func (b *backend) Resume(snap session.Snapshot) screen.Screen {
	start := practicescreen.FromSnapshot(b.opts.Service, b.opts.UserID, snap)
	return practicescreen.New(start, b.opts.Logger).WithTemplateSaver(b.saveTemplate)
}

func (b *backend) History() screen.Screen {
	return history.New(b.opts.Sources.Sessions, b.opts.UserID)
}

func (b *backend) saveTemplate(ctx context.Context, name string, cfg session.Config) error {
	_, err := b.opts.Templates.Save(ctx, b.opts.UserID, name, cfg)
	return err
}
