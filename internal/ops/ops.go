// Package ops implements the user-facing prompt operations shared by the
// CLI, the MCP tools and the HTTP API. Each operation takes an Input struct
// and returns an Output struct ready for JSON encoding.
package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/prompt"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// PromptSummary is a prompt with its content shortened to a preview.
type PromptSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	Tags       []string  `json:"tags"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summarize builds the list representation of p.
func Summarize(p prompt.Prompt) PromptSummary {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PromptSummary{
		ID:         p.ID,
		Title:      p.Title,
		Preview:    p.Preview(),
		Tags:       tags,
		IsFavorite: p.IsFavorite,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ValidateID trims id and rejects an empty one.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// defaultTags returns the configured suggestion vocabulary, or the built-in one.
func defaultTags(cfg *config.Config) []string {
	if cfg != nil && len(cfg.DefaultTags) > 0 {
		return cfg.DefaultTags
	}
	return prompt.DefaultTags
}

// paginate clamps limit/offset and slices items accordingly.
func paginate[T any](items []T, limit, offset int) ([]T, Pagination) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = max(offset, 0)

	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)

	return items[start:end], Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
		Total:   total,
	}
}
