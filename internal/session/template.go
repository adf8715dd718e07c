package session

import "time"

// MaxTemplates is how many saved configurations a user keeps.
const MaxTemplates = 5

// MaxTemplateNameLen bounds template names.
const MaxTemplateNameLen = 40

// Template is a named, reusable session configuration.
type Template struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Config    Config    `json:"config"`
	CreatedAt time.Time `json:"created_at"`
}
