package prompt

import (
	"time"
	"unicode/utf8"
)

// StorageKey is the single persistence key holding the whole collection.
const StorageKey = "prompts"

// PreviewChars is the rune length of a content preview.
const PreviewChars = 100

// Prompt is a user-authored text record with metadata.
type Prompt struct {
	// ID is a ULID assigned at creation; immutable
	ID string `json:"id"`

	// Title may be empty
	Title string `json:"title"`

	// Content is the prompt body; may be empty
	Content string `json:"content"`

	// Tags are de-duplicated (case-sensitive) and keep insertion order
	Tags []string `json:"tags"`

	// IsFavorite defaults to false on creation
	IsFavorite bool `json:"isFavorite"`

	// CreatedAt is set once at creation
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is bumped on every successful mutation
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share the tags backing array.
func (p Prompt) Clone() Prompt {
	c := p
	c.Tags = append([]string{}, p.Tags...)
	return c
}

// Preview returns the content truncated to PreviewChars runes, with "..."
// appended when anything was cut.
func (p Prompt) Preview() string {
	if utf8.RuneCountInString(p.Content) <= PreviewChars {
		return p.Content
	}
	runes := []rune(p.Content)
	return string(runes[:PreviewChars]) + "..."
}

// CloneAll deep-copies a slice of prompts. A nil input yields an empty slice.
func CloneAll(prompts []Prompt) []Prompt {
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		out[i] = p.Clone()
	}
	return out
}

// IndexOf returns the position of the prompt with the given id, or -1.
func IndexOf(prompts []Prompt, id string) int {
	for i := range prompts {
		if prompts[i].ID == id {
			return i
		}
	}
	return -1
}
