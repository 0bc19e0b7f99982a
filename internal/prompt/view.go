package prompt

import (
	"slices"
	"strings"
)

// SortOption selects the ordering of a view.
type SortOption string

const (
	SortNewest    SortOption = "newest"    // createdAt descending
	SortOldest    SortOption = "oldest"    // createdAt ascending
	SortFavorites SortOption = "favorites" // favorites first, otherwise original order
)

// ParseSortOption maps user input to a SortOption, case-insensitively.
// Empty input means SortNewest. Unrecognized values are returned as-is;
// BuildView passes them through without reordering.
func ParseSortOption(s string) SortOption {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNewest
	}
	return SortOption(s)
}

// BuildView filters prompts by query and orders them by sort. It is pure:
// the input slice is neither mutated nor retained.
//
// A prompt matches when query is empty or occurs, case-insensitively, in the
// title, the content, or any tag. Sorting is stable.
func BuildView(prompts []Prompt, query string, sort SortOption) []Prompt {
	view := make([]Prompt, 0, len(prompts))
	needle := strings.ToLower(query)
	for _, p := range prompts {
		if Matches(p, needle) {
			view = append(view, p.Clone())
		}
	}

	switch sort {
	case SortNewest:
		slices.SortStableFunc(view, func(a, b Prompt) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortOldest:
		slices.SortStableFunc(view, func(a, b Prompt) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortFavorites:
		slices.SortStableFunc(view, func(a, b Prompt) int {
			return favoriteRank(a) - favoriteRank(b)
		})
	}

	return view
}

// Matches reports whether p matches an already-lowercased query.
func Matches(p Prompt, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Content), lowerQuery) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

func favoriteRank(p Prompt) int {
	if p.IsFavorite {
		return 0
	}
	return 1
}
