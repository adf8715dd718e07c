package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizbank/internal/session"
)

// TemplateRepo stores saved session configurations.
type TemplateRepo struct {
	store *Store
}

// SaveTemplate inserts t and prunes the user's list down to
// session.MaxTemplates, newest first.
func (r *TemplateRepo) SaveTemplate(ctx context.Context, t session.Template) error {
	cfg, err := json.Marshal(t.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = r.store.stamp()
	}
	return r.store.withTx(ctx, func(tx dialect.Tx) error {
		ins := builder.Insert(templatesTable.Name).
			Columns("id", "user_id", "name", "config", "created_at").
			Values(t.ID, t.UserID, t.Name, string(cfg), unix(created))
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
		return pruneTemplates(ctx, tx, t.UserID, session.MaxTemplates)
	})
}

func pruneTemplates(ctx context.Context, tx dialect.Tx, userID string, keep int) error {
	sel := builder.Select("id").
		From(builder.Table(templatesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid"))
	var (
		ids  []string
		seen int
	)
	err := query(ctx, tx, sel, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		if seen++; seen > keep {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("query templates for prune: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	del := builder.Delete(templatesTable.Name).Where(entsql.In("id", anys(ids)...))
	if _, err := exec(ctx, tx, del); err != nil {
		return fmt.Errorf("prune templates: %w", err)
	}
	return nil
}

// ListTemplates returns the user's templates, newest first.
func (r *TemplateRepo) ListTemplates(ctx context.Context, userID string) ([]session.Template, error) {
	sel := builder.Select("id", "user_id", "name", "config", "created_at").
		From(builder.Table(templatesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid"))
	out := []session.Template{}
	err := query(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var (
			t       session.Template
			cfg     string
			created int64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &cfg, &created); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(cfg), &t.Config); err != nil {
			return fmt.Errorf("template %s config: %w", t.ID, err)
		}
		t.CreatedAt = fromUnix(created)
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// DeleteTemplate removes one of the user's templates.
func (r *TemplateRepo) DeleteTemplate(ctx context.Context, userID, id string) error {
	del := builder.Delete(templatesTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id)))
	n, err := exec(ctx, r.store.drv, del)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}
