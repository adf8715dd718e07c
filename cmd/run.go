package cmd

import (
	"github.com/abhisek/quizbank/internal/app"
	"github.com/abhisek/quizbank/internal/selection"
	"github.com/abhisek/quizbank/internal/session"
)

// runApp builds dependencies and launches the TUI. A non-nil start opens
// that session instead of the menu; a nil builder picks a time seed.
func runApp(e *env, start *session.Config, builder *selection.Builder) error {
	base, err := e.cfg.SessionConfig()
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Service:   e.service(builder),
		Templates: e.templates(),
		Sources:   e.sources(),
		UserID:    e.userID(),
		Base:      base,
		Stats:     e.statsOptions(),
		Clock:     e.clock,
		Logger:    e.logger,
		Start:     start,
	})
}
