package bank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleImport = `{
  "subjects": [{
    "name": "Geography",
    "color": "#22c55e",
    "chapters": [{
      "name": "Capitals",
      "questions": [
        {"text": "Capital of France?", "options": ["Paris", "Rome", "Madrid", "Berlin"], "correct": "a", "important": true},
        {"text": "Capital of Japan?", "options": ["Seoul", "Tokyo", "Beijing", "Hanoi"], "correct": "B", "explanation": "Tokyo since 1868."}
      ]
    }]
  }]
}`

func TestParseImport(t *testing.T) {
	f, err := ParseImport(strings.NewReader(sampleImport))
	require.NoError(t, err)

	s, c, q := f.Counts()
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, c)
	assert.Equal(t, 2, q)

	first := f.Subjects[0].Chapters[0].Questions[0].Question()
	assert.Equal(t, "A", first.CorrectOption)
	assert.True(t, first.Important)
	assert.Equal(t, "Paris", first.OptionText("A"))
}

func TestParseImport_Rejects(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"bad json", `{`, "decode"},
		{"unknown field", `{"subjects": [], "extra": 1}`, "decode"},
		{"no subjects", `{"subjects": []}`, "no subjects"},
		{"unnamed subject", `{"subjects": [{"name": " ", "chapters": []}]}`, "subject 1"},
		{"three options", `{"subjects": [{"name": "S", "chapters": [{"name": "C", "questions": [
			{"text": "t", "options": ["a", "b", "c"], "correct": "A"}]}]}]}`, "question 1"},
		{"bad correct", `{"subjects": [{"name": "S", "chapters": [{"name": "C", "questions": [
			{"text": "t", "options": ["a", "b", "c", "d"], "correct": "E"}]}]}]}`, "correct option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
