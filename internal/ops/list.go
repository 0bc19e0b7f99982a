package ops

import (
	"context"

	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Query  string // case-insensitive substring over title, content and tags
	Sort   string // newest (default), oldest, favorites; anything else keeps stored order
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []PromptSummary `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List refreshes the collection from storage, filters and sorts it, and
// returns one page of summaries.
func List(ctx context.Context, repo *repository.Repository, input ListInput) (*ListOutput, error) {
	sort := prompt.ParseSortOption(input.Sort)

	prompts, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	view := prompt.BuildView(prompts, input.Query, sort)
	page, pagination := paginate(view, input.Limit, input.Offset)

	items := make([]PromptSummary, len(page))
	for i, p := range page {
		items[i] = Summarize(p)
	}

	return &ListOutput{
		Items:      items,
		Pagination: pagination,
		Sort:       string(sort),
	}, nil
}
