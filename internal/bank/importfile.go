package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ImportFile is the JSON layout accepted by the import command:
// subjects holding chapters holding questions.
type ImportFile struct {
	Subjects []ImportSubject `json:"subjects"`
}

type ImportSubject struct {
	Name     string          `json:"name"`
	Color    string          `json:"color,omitempty"`
	Icon     string          `json:"icon,omitempty"`
	Chapters []ImportChapter `json:"chapters"`
}

type ImportChapter struct {
	Name      string           `json:"name"`
	Questions []ImportQuestion `json:"questions"`
}

// ImportQuestion lists option texts in A-D order.
type ImportQuestion struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
	Important   bool     `json:"important,omitempty"`
}

// Question converts the entry into a Question without IDs.
func (iq ImportQuestion) Question() Question {
	q := Question{
		Text:          strings.TrimSpace(iq.Text),
		CorrectOption: strings.ToUpper(strings.TrimSpace(iq.Correct)),
		Explanation:   strings.TrimSpace(iq.Explanation),
		Important:     iq.Important,
	}
	for i, text := range iq.Options {
		label := "?"
		if i < len(Labels) {
			label = Labels[i]
		}
		q.Options = append(q.Options, Option{Label: label, Text: strings.TrimSpace(text)})
	}
	return q
}

// Counts returns the number of subjects, chapters and questions.
func (f *ImportFile) Counts() (subjects, chapters, questions int) {
	for _, s := range f.Subjects {
		subjects++
		for _, c := range s.Chapters {
			chapters++
			questions += len(c.Questions)
		}
	}
	return subjects, chapters, questions
}

// ParseImport decodes and structurally checks an import file. Every problem
// is reported with its position.
func ParseImport(r io.Reader) (*ImportFile, error) {
	var f ImportFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	if len(f.Subjects) == 0 {
		return nil, fmt.Errorf("import file has no subjects")
	}
	for si, s := range f.Subjects {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("subject %d: name is required", si+1)
		}
		for ci, c := range s.Chapters {
			if strings.TrimSpace(c.Name) == "" {
				return nil, fmt.Errorf("subject %q chapter %d: name is required", s.Name, ci+1)
			}
			for qi, iq := range c.Questions {
				q := iq.Question()
				if err := CheckShape(&q); err != nil {
					return nil, fmt.Errorf("subject %q chapter %q question %d: %w", s.Name, c.Name, qi+1, err)
				}
			}
		}
	}
	return &f, nil
}
