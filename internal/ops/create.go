package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// CreateInput contains parameters for the Create operation.
// Title and content may be empty.
type CreateInput struct {
	Title      string
	Content    string
	Tags       []string
	IsFavorite bool
}

// CreateOutput contains the created prompt.
type CreateOutput struct {
	Prompt prompt.Prompt `json:"prompt"`
}

// Create adds a prompt to the collection.
func Create(ctx context.Context, repo *repository.Repository, input CreateInput) (*CreateOutput, error) {
	p, err := repo.Create(ctx, repository.CreateParams{
		Title:      input.Title,
		Content:    input.Content,
		Tags:       input.Tags,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		return nil, err
	}
	return &CreateOutput{Prompt: p}, nil
}
