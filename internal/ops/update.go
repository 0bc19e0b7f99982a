package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID string

	// Editable fields (nil = don't change)
	Title      *string
	Content    *string
	Tags       *[]string
	RemoveTags []string // detached after Tags is applied
	IsFavorite *bool
}

// UpdateOutput contains the updated prompt.
type UpdateOutput struct {
	Prompt prompt.Prompt `json:"prompt"`
}

// Update modifies an existing prompt.
func Update(ctx context.Context, repo *repository.Repository, input UpdateInput) (*UpdateOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	patch := repository.Patch{
		Title:      input.Title,
		Content:    input.Content,
		Tags:       input.Tags,
		RemoveTags: input.RemoveTags,
		IsFavorite: input.IsFavorite,
	}
	if patch.Empty() {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	p, err := repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Prompt: p}, nil
}
