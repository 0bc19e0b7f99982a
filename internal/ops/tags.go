package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// ListTagsOutput contains the tag vocabulary.
type ListTagsOutput struct {
	// Tags is the default vocabulary followed by tags in use, deduplicated
	Tags []string `json:"tags"`
	// InUse lists only the tags attached to at least one prompt
	InUse []string `json:"in_use"`
}

// ListTags refreshes the collection and returns the vocabulary suggestions
// are drawn from.
func ListTags(ctx context.Context, repo *repository.Repository, cfg *config.Config) (*ListTagsOutput, error) {
	prompts, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{
		Tags:  prompt.KnownTags(defaultTags(cfg), prompts),
		InUse: repo.KnownTags(),
	}, nil
}
