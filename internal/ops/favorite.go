package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// ToggleFavoriteInput contains parameters for the ToggleFavorite operation.
type ToggleFavoriteInput struct {
	ID string
}

// ToggleFavoriteOutput contains the prompt after the flip.
type ToggleFavoriteOutput struct {
	Prompt prompt.Prompt `json:"prompt"`
}

// ToggleFavorite flips a prompt's favorite flag.
func ToggleFavorite(ctx context.Context, repo *repository.Repository, input ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	p, err := repo.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ToggleFavoriteOutput{Prompt: p}, nil
}
