package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string
}

// GetOutput contains the full prompt and its content statistics.
type GetOutput struct {
	Prompt prompt.Prompt `json:"prompt"`
	Stats  prompt.Stats  `json:"stats"`
}

// Get refreshes the collection from storage and returns one prompt.
func Get(ctx context.Context, repo *repository.Repository, input GetInput) (*GetOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}
	if _, err := repo.Load(ctx); err != nil {
		return nil, err
	}

	p, ok := repo.GetByID(id)
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	return &GetOutput{Prompt: p, Stats: p.Stats()}, nil
}
