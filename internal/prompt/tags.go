package prompt

import (
	"slices"
	"strings"
)

// DefaultTags is the built-in suggestion vocabulary used when config does
// not provide one.
var DefaultTags = []string{"React", "JavaScript", "TypeScript", "Mobile", "Web", "AI", "Prompt"}

// AddTag trims tag and appends it to attached unless it is empty or an exact
// (case-sensitive) duplicate. It never mutates attached and reports whether
// the tag was added.
func AddTag(attached []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(attached, tag) {
		return attached, false
	}
	out := make([]string, 0, len(attached)+1)
	out = append(out, attached...)
	return append(out, tag), true
}

// RemoveTag returns attached without tag.
func RemoveTag(attached []string, tag string) []string {
	out := make([]string, 0, len(attached))
	for _, t := range attached {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// CleanTags runs every tag through AddTag, in order. The result is never nil.
func CleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		out, _ = AddTag(out, t)
	}
	return out
}

// Suggest returns the known tags that case-insensitively contain partial and
// are not already attached, in knownTags order. Empty or whitespace-only
// input yields no suggestions.
func Suggest(partial string, knownTags, attached []string) []string {
	out := []string{}
	if strings.TrimSpace(partial) == "" {
		return out
	}

	needle := strings.ToLower(partial)
	for _, tag := range knownTags {
		if strings.Contains(strings.ToLower(tag), needle) && !slices.Contains(attached, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// KnownTags builds the suggestion vocabulary: defaults first, then every tag
// used in prompts in first-seen order, without duplicates.
func KnownTags(defaults []string, prompts []Prompt) []string {
	seen := make(map[string]bool)
	out := []string{}
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	for _, t := range defaults {
		add(strings.TrimSpace(t))
	}
	for _, p := range prompts {
		for _, t := range p.Tags {
			add(t)
		}
	}
	return out
}

// dedupeTags drops exact duplicates, keeping first occurrences.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
