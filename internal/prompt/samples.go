package prompt

import "time"

// Samples returns the demonstration collection offered on first run:
// three prompts created now, a day ago and two days ago.
func Samples(now time.Time) []Prompt {
	now = now.UTC().Truncate(time.Millisecond)
	day := 24 * time.Hour
	return []Prompt{
		{
			ID:         "1",
			Title:      "Creative Writing Assistant",
			Content:    "I want you to act as a creative writing assistant who helps me brainstorm engaging story ideas...",
			Tags:       []string{"writing", "creative"},
			IsFavorite: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:        "2",
			Title:     "Code Reviewer",
			Content:   "Act as a senior developer reviewing my code. Provide feedback on best practices, potential bugs...",
			Tags:      []string{"coding", "review"},
			CreatedAt: now.Add(-day),
			UpdatedAt: now.Add(-day),
		},
		{
			ID:         "3",
			Title:      "Travel Planner",
			Content:    "I want you to act as a travel planner for my upcoming trip to [destination]...",
			Tags:       []string{"travel", "planning"},
			IsFavorite: true,
			CreatedAt:  now.Add(-2 * day),
			UpdatedAt:  now.Add(-2 * day),
		},
	}
}
