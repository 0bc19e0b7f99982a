package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/repository"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
// Deleted is false when no prompt had the id; that is not an error.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a prompt.
func Delete(ctx context.Context, repo *repository.Repository, input DeleteInput) (*DeleteOutput, error) {
	id, err := ValidateID(input.ID)
	if err != nil {
		return nil, err
	}

	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: deleted, ID: id}, nil
}
