package bank

import "time"

// Labels are the option labels every question carries, in display order.
var Labels = []string{"A", "B", "C", "D"}

// Option is one labeled answer choice.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is a multiple-choice question tagged with its subject and chapter.
// SubjectName and ChapterName are denormalized for display only.
type Question struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Options       []Option  `json:"options"`
	CorrectOption string    `json:"correct_option"`
	Explanation   string    `json:"explanation,omitempty"`
	Important     bool      `json:"important"`
	SubjectID     string    `json:"subject_id"`
	SubjectName   string    `json:"subject_name,omitempty"`
	ChapterID     string    `json:"chapter_id"`
	ChapterName   string    `json:"chapter_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OptionText returns the text of the option with the given label, or "".
func (q *Question) OptionText(label string) string {
	for _, o := range q.Options {
		if o.Label == label {
			return o.Text
		}
	}
	return ""
}

// HasOption reports whether label is one of the question's options.
func (q *Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// Subject groups chapters.
type Subject struct {
	ID        string
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time
}

// Chapter groups questions inside a subject.
type Chapter struct {
	ID        string
	SubjectID string
	Name      string
	CreatedAt time.Time
}

// Scope filters the question pool. Empty slices mean "all".
type Scope struct {
	SubjectIDs []string `json:"subject_ids,omitempty"`
	ChapterIDs []string `json:"chapter_ids,omitempty"`
}

// AllSubjects reports whether the scope spans every subject.
func (s Scope) AllSubjects() bool {
	return len(s.SubjectIDs) == 0
}

// AllChapters reports whether the scope spans every chapter of the chosen subjects.
func (s Scope) AllChapters() bool {
	return len(s.ChapterIDs) == 0
}

// IncludesSubject reports whether subjectID is in scope.
func (s Scope) IncludesSubject(subjectID string) bool {
	if s.AllSubjects() {
		return true
	}
	for _, id := range s.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// IncludesChapter reports whether chapterID is in scope.
func (s Scope) IncludesChapter(chapterID string) bool {
	if s.AllChapters() {
		return true
	}
	for _, id := range s.ChapterIDs {
		if id == chapterID {
			return true
		}
	}
	return false
}
