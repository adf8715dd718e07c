package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/quizbank/internal/clock"
	"github.com/abhisek/quizbank/internal/session"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateRepo stores saved session configurations. SaveTemplate keeps at
// most session.MaxTemplates per user, dropping the oldest.
type TemplateRepo interface {
	SaveTemplate(ctx context.Context, t session.Template) error
	ListTemplates(ctx context.Context, userID string) ([]session.Template, error)
	DeleteTemplate(ctx context.Context, userID, id string) error
}

// Templates manages a user's saved configurations.
type Templates struct {
	repo  TemplateRepo
	clock clock.Clock
}

func NewTemplates(repo TemplateRepo, clk clock.Clock) *Templates {
	if clk == nil {
		clk = clock.Real()
	}
	return &Templates{repo: repo, clock: clk}
}

// Save stores cfg under name.
func (t *Templates) Save(ctx context.Context, userID, name string, cfg session.Config) (session.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return session.Template{}, errors.New("template name is required")
	}
	tpl := session.Template{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Config:    cfg,
		CreatedAt: t.clock.Now(),
	}
	if err := t.repo.SaveTemplate(ctx, tpl); err != nil {
		return session.Template{}, fmt.Errorf("save template: %w", err)
	}
	return tpl, nil
}

// Find looks a template up by ID or, failing that, by name.
func (t *Templates) Find(ctx context.Context, userID, ref string) (session.Template, error) {
	list, err := t.repo.ListTemplates(ctx, userID)
	if err != nil {
		return session.Template{}, fmt.Errorf("list templates: %w", err)
	}
	for _, tpl := range list {
		if tpl.ID == ref {
			return tpl, nil
		}
	}
	for _, tpl := range list {
		if strings.EqualFold(tpl.Name, ref) {
			return tpl, nil
		}
	}
	return session.Template{}, fmt.Errorf("%q: %w", ref, ErrTemplateNotFound)
}

// List returns the user's templates, newest first.
func (t *Templates) List(ctx context.Context, userID string) ([]session.Template, error) {
	return t.repo.ListTemplates(ctx, userID)
}

// Delete removes a template.
func (t *Templates) Delete(ctx context.Context, userID, id string) error {
	return t.repo.DeleteTemplate(ctx, userID, id)
}
