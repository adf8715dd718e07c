package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/quizbank/internal/bank"
)

// BankRepo stores subjects, chapters and questions.
type BankRepo struct {
	store *Store
}

var questionColumns = []string{
	"id", "subject_id", "chapter_id", "text", "options",
	"correct_option", "explanation", "important", "created_at",
}

// CreateSubject adds a subject.
func (r *BankRepo) CreateSubject(ctx context.Context, name, color, icon string) (bank.Subject, error) {
	subj := bank.Subject{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: r.store.stamp(),
	}
	if err := insertSubject(ctx, r.store.drv, subj); err != nil {
		return bank.Subject{}, err
	}
	return subj, nil
}

func insertSubject(ctx context.Context, q querier, s bank.Subject) error {
	ins := builder.Insert(subjectsTable.Name).
		Columns("id", "name", "color", "icon", "created_at").
		Values(s.ID, s.Name, s.Color, s.Icon, unix(s.CreatedAt))
	if _, err := exec(ctx, q, ins); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// ListSubjects returns every subject by name.
func (r *BankRepo) ListSubjects(ctx context.Context) ([]bank.Subject, error) {
	sel := builder.Select("id", "name", "color", "icon", "created_at").
		From(builder.Table(subjectsTable.Name)).
		OrderBy("name", "id")
	var out []bank.Subject
	err := query(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var s bank.Subject
		var created int64
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Icon, &created); err != nil {
			return err
		}
		s.CreatedAt = fromUnix(created)
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

// DeleteSubject removes a subject with its chapters and questions.
func (r *BankRepo) DeleteSubject(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx dialect.Tx) error {
		if _, err := exec(ctx, tx, builder.Delete(questionsTable.Name).Where(entsql.EQ("subject_id", id))); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if _, err := exec(ctx, tx, builder.Delete(chaptersTable.Name).Where(entsql.EQ("subject_id", id))); err != nil {
			return fmt.Errorf("delete chapters: %w", err)
		}
		n, err := exec(ctx, tx, builder.Delete(subjectsTable.Name).Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete subject: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("subject %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// CreateChapter adds a chapter to an existing subject.
func (r *BankRepo) CreateChapter(ctx context.Context, subjectID, name string) (bank.Chapter, error) {
	ch := bank.Chapter{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Name:      name,
		CreatedAt: r.store.stamp(),
	}
	err := r.store.withTx(ctx, func(tx dialect.Tx) error {
		if err := requireRow(ctx, tx, subjectsTable.Name, subjectID); err != nil {
			return fmt.Errorf("subject %s: %w", subjectID, err)
		}
		return insertChapter(ctx, tx, ch)
	})
	if err != nil {
		return bank.Chapter{}, err
	}
	return ch, nil
}

func insertChapter(ctx context.Context, q querier, ch bank.Chapter) error {
	ins := builder.Insert(chaptersTable.Name).
		Columns("id", "subject_id", "name", "created_at").
		Values(ch.ID, ch.SubjectID, ch.Name, unix(ch.CreatedAt))
	if _, err := exec(ctx, q, ins); err != nil {
		return fmt.Errorf("insert chapter: %w", err)
	}
	return nil
}

// ListChapters returns a subject's chapters by name. An empty subjectID
// lists every chapter.
func (r *BankRepo) ListChapters(ctx context.Context, subjectID string) ([]bank.Chapter, error) {
	sel := builder.Select("id", "subject_id", "name", "created_at").
		From(builder.Table(chaptersTable.Name)).
		OrderBy("name", "id")
	if subjectID != "" {
		sel.Where(entsql.EQ("subject_id", subjectID))
	}
	var out []bank.Chapter
	err := query(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var c bank.Chapter
		var created int64
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Name, &created); err != nil {
			return err
		}
		c.CreatedAt = fromUnix(created)
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return out, nil
}

// DeleteChapter removes a chapter and its questions.
func (r *BankRepo) DeleteChapter(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(tx dialect.Tx) error {
		if _, err := exec(ctx, tx, builder.Delete(questionsTable.Name).Where(entsql.EQ("chapter_id", id))); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		n, err := exec(ctx, tx, builder.Delete(chaptersTable.Name).Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("chapter %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddQuestions stores questions under a chapter in one transaction. Each
// question is structurally checked first; IDs and tags are assigned here.
func (r *BankRepo) AddQuestions(ctx context.Context, chapterID string, qs []bank.Question) ([]bank.Question, error) {
	out := make([]bank.Question, len(qs))
	err := r.store.withTx(ctx, func(tx dialect.Tx) error {
		ch, err := chapterByID(ctx, tx, chapterID)
		if err != nil {
			return err
		}
		now := r.store.stamp()
		for i, q := range qs {
			if err := bank.CheckShape(&q); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
			q.ID = uuid.NewString()
			q.SubjectID = ch.SubjectID
			q.ChapterID = ch.ID
			q.CreatedAt = now
			out[i] = q
		}
		return insertQuestions(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertQuestions(ctx context.Context, q querier, qs []bank.Question) error {
	for start := 0; start < len(qs); start += 200 {
		end := min(start+200, len(qs))
		ins := builder.Insert(questionsTable.Name).Columns(questionColumns...)
		for _, qq := range qs[start:end] {
			opts, err := json.Marshal(qq.Options)
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
			ins.Values(qq.ID, qq.SubjectID, qq.ChapterID, qq.Text, string(opts),
				qq.CorrectOption, qq.Explanation, qq.Important, unix(qq.CreatedAt))
		}
		if _, err := exec(ctx, q, ins); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
	}
	return nil
}

// ListQuestions returns a chapter's questions in creation order.
func (r *BankRepo) ListQuestions(ctx context.Context, chapterID string) ([]bank.Question, error) {
	return r.selectQuestions(ctx, func(sel *entsql.Selector, q *entsql.SelectTable) {
		sel.Where(entsql.EQ(q.C("chapter_id"), chapterID))
	})
}

// DeleteQuestion removes one question. Its performance rows are left to be
// ignored, as they never match the pool again.
func (r *BankRepo) DeleteQuestion(ctx context.Context, id string) error {
	n, err := exec(ctx, r.store.drv, builder.Delete(questionsTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return nil
}

// LoadQuestionPool returns the questions in scope, tagged with subject and
// chapter names.
func (r *BankRepo) LoadQuestionPool(ctx context.Context, scope bank.Scope) ([]bank.Question, error) {
	return r.selectQuestions(ctx, func(sel *entsql.Selector, q *entsql.SelectTable) {
		var preds []*entsql.Predicate
		if !scope.AllSubjects() {
			preds = append(preds, entsql.In(q.C("subject_id"), anys(scope.SubjectIDs)...))
		}
		if !scope.AllChapters() {
			preds = append(preds, entsql.In(q.C("chapter_id"), anys(scope.ChapterIDs)...))
		}
		if len(preds) > 0 {
			sel.Where(entsql.And(preds...))
		}
	})
}

// QuestionsByID returns the questions that still exist among ids, in no
// particular order.
func (r *BankRepo) QuestionsByID(ctx context.Context, ids []string) ([]bank.Question, error) {
	var out []bank.Question
	for _, chunk := range chunks(ids, 500) {
		qs, err := r.selectQuestions(ctx, func(sel *entsql.Selector, q *entsql.SelectTable) {
			sel.Where(entsql.In(q.C("id"), anys(chunk)...))
		})
		if err != nil {
			return nil, err
		}
		out = append(out, qs...)
	}
	return out, nil
}

func (r *BankRepo) selectQuestions(ctx context.Context, filter func(*entsql.Selector, *entsql.SelectTable)) ([]bank.Question, error) {
	q := builder.Table(questionsTable.Name).As("q")
	s := builder.Table(subjectsTable.Name).As("s")
	c := builder.Table(chaptersTable.Name).As("c")

	sel := builder.Select(
		q.C("id"), q.C("subject_id"), q.C("chapter_id"), q.C("text"), q.C("options"),
		q.C("correct_option"), q.C("explanation"), q.C("important"), q.C("created_at"),
		s.C("name"), c.C("name"),
	).
		From(q).
		Join(s).On(q.C("subject_id"), s.C("id")).
		Join(c).On(q.C("chapter_id"), c.C("id")).
		OrderBy(s.C("name"), c.C("name"), q.C("created_at"), q.C("rowid"))
	filter(sel, q)

	var out []bank.Question
	err := query(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var (
			qq      bank.Question
			opts    string
			created int64
		)
		if err := rows.Scan(&qq.ID, &qq.SubjectID, &qq.ChapterID, &qq.Text, &opts,
			&qq.CorrectOption, &qq.Explanation, &qq.Important, &created,
			&qq.SubjectName, &qq.ChapterName); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(opts), &qq.Options); err != nil {
			return fmt.Errorf("question %s options: %w", qq.ID, err)
		}
		qq.CreatedAt = fromUnix(created)
		out = append(out, qq)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	return out, nil
}

// Import stores a parsed import file in one transaction. Subjects and
// chapters are matched by name and created when missing.
func (r *BankRepo) Import(ctx context.Context, f *bank.ImportFile) (int, error) {
	added := 0
	err := r.store.withTx(ctx, func(tx dialect.Tx) error {
		now := r.store.stamp()
		for _, is := range f.Subjects {
			subjectID, err := findOrCreateSubject(ctx, tx, is, now)
			if err != nil {
				return err
			}
			for _, ic := range is.Chapters {
				chapterID, err := findOrCreateChapter(ctx, tx, subjectID, ic.Name, now)
				if err != nil {
					return err
				}
				qs := make([]bank.Question, 0, len(ic.Questions))
				for _, iq := range ic.Questions {
					q := iq.Question()
					if err := bank.CheckShape(&q); err != nil {
						return fmt.Errorf("chapter %q: %w", ic.Name, err)
					}
					q.ID = uuid.NewString()
					q.SubjectID = subjectID
					q.ChapterID = chapterID
					q.CreatedAt = now
					qs = append(qs, q)
				}
				if err := insertQuestions(ctx, tx, qs); err != nil {
					return err
				}
				added += len(qs)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return added, nil
}

func requireRow(ctx context.Context, q querier, table, id string) error {
	found := false
	sel := builder.Select("id").From(builder.Table(table)).Where(entsql.EQ("id", id)).Limit(1)
	err := query(ctx, q, sel, func(rows *entsql.Rows) error {
		found = true
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func chapterByID(ctx context.Context, q querier, id string) (bank.Chapter, error) {
	var ch bank.Chapter
	sel := builder.Select("id", "subject_id", "name").
		From(builder.Table(chaptersTable.Name)).
		Where(entsql.EQ("id", id)).
		Limit(1)
	err := query(ctx, q, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&ch.ID, &ch.SubjectID, &ch.Name)
	})
	if err != nil {
		return bank.Chapter{}, fmt.Errorf("load chapter: %w", err)
	}
	if ch.ID == "" {
		return bank.Chapter{}, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
	}
	return ch, nil
}

// idByName returns the id of the first row named name matching extra, or "".
func idByName(ctx context.Context, q querier, table, name string, extra *entsql.Predicate) (string, error) {
	pred := entsql.EQ("name", name)
	if extra != nil {
		pred = entsql.And(pred, extra)
	}
	var id string
	sel := builder.Select("id").From(builder.Table(table)).Where(pred).OrderBy("created_at").Limit(1)
	err := query(ctx, q, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&id)
	})
	return id, err
}

func findOrCreateSubject(ctx context.Context, q querier, is bank.ImportSubject, now time.Time) (string, error) {
	id, err := idByName(ctx, q, subjectsTable.Name, is.Name, nil)
	if err != nil || id != "" {
		return id, err
	}
	subj := bank.Subject{ID: uuid.NewString(), Name: is.Name, Color: is.Color, Icon: is.Icon, CreatedAt: now}
	return subj.ID, insertSubject(ctx, q, subj)
}

func findOrCreateChapter(ctx context.Context, q querier, subjectID, name string, now time.Time) (string, error) {
	id, err := idByName(ctx, q, chaptersTable.Name, name, entsql.EQ("subject_id", subjectID))
	if err != nil || id != "" {
		return id, err
	}
	ch := bank.Chapter{ID: uuid.NewString(), SubjectID: subjectID, Name: name, CreatedAt: now}
	return ch.ID, insertChapter(ctx, q, ch)
}
