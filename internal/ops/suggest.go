package ops

import (
	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// SuggestTagsInput contains parameters for the SuggestTags operation.
type SuggestTagsInput struct {
	Partial  string   // text typed so far
	Attached []string // tags already on the prompt being edited
	Limit    int      // 0 = config suggest_limit
}

// SuggestTagsOutput contains matching tags in vocabulary order.
type SuggestTagsOutput struct {
	Suggestions []string `json:"suggestions"`
}

// SuggestTags completes a partially typed tag against the default tags and
// the tags already used in the collection. It reads the in-memory snapshot.
func SuggestTags(repo *repository.Repository, cfg *config.Config, input SuggestTagsInput) *SuggestTagsOutput {
	known := prompt.KnownTags(defaultTags(cfg), repo.Prompts())
	suggestions := prompt.Suggest(input.Partial, known, input.Attached)

	limit := input.Limit
	if limit <= 0 && cfg != nil {
		limit = cfg.SuggestLimit
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return &SuggestTagsOutput{Suggestions: suggestions}
}
