package curator

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exactly10!", truncate("exactly10!", 10))

	long := strings.Repeat("a", 600)
	cut := truncate(long, 500)
	require.Equal(t, 500, utf8.RuneCountInString(cut))
	require.True(t, strings.HasSuffix(cut, "…"))

	multibyte := strings.Repeat("あ", 20)
	cut = truncate(multibyte, 10)
	require.Equal(t, 10, utf8.RuneCountInString(cut))
	require.True(t, strings.HasSuffix(cut, "…"))
}

func TestBuildRecommendationPromptWithFavorite(t *testing.T) {
	favorite := &MediaItem{
		ID:          1,
		Title:       "Death Note",
		Description: strings.Repeat("x", 600),
		Genres:      []string{"Mystery", "Thriller"},
		Year:        2006,
	}
	candidates := make([]MediaItem, 0, 8)
	for i := 0; i < 8; i++ {
		candidates = append(candidates, MediaItem{
			ID:     10 + i,
			Title:  fmt.Sprintf("Candidate %d", i+1),
			Genres: []string{"Mystery"},
			Year:   2005 + i,
		})
	}

	prompt := BuildRecommendationPrompt("I loved Death Note", favorite, candidates)

	require.Contains(t, prompt, "User message: I loved Death Note")
	require.Contains(t, prompt, "- Title: Death Note")
	require.Contains(t, prompt, "- Year: 2006")
	require.Contains(t, prompt, "- Genres: Mystery, Thriller")
	require.Contains(t, prompt, "Task: Choose 2-3 titles")

	// Only the first six candidates make it into the prompt.
	require.Contains(t, prompt, "#6 Candidate 6")
	require.NotContains(t, prompt, "Candidate 7")

	// Favorite description is cut to the 500 rune limit.
	require.NotContains(t, prompt, strings.Repeat("x", 501))
	require.Contains(t, prompt, strings.Repeat("x", 499)+"…")
}

func TestBuildRecommendationPromptNoFavorite(t *testing.T) {
	prompt := BuildRecommendationPrompt("obscure title", nil, nil)
	require.Contains(t, prompt, "Favorite anime: Could not find exact match.")
	require.Contains(t, prompt, "User message: obscure title")
}

func TestBuildRecommendationPromptUnknownFields(t *testing.T) {
	favorite := &MediaItem{ID: 1, Title: "Obscure"}
	prompt := BuildRecommendationPrompt("msg", favorite, []MediaItem{{ID: 2, Title: "Other"}})
	require.Contains(t, prompt, "- Year: Unknown")
	require.Contains(t, prompt, "- Genres: N/A")
	require.Contains(t, prompt, "#1 Other (Unknown)")
}

func TestBuildFallbackMessageNoCandidates(t *testing.T) {
	msg := BuildFallbackMessage(&MediaItem{Title: "Death Note"}, nil, "")
	require.Contains(t, msg, "Based on your favorite: Death Note")
	require.Contains(t, msg, "I could not fetch similar titles right now.")
}

func TestBuildFallbackMessageWithCandidates(t *testing.T) {
	candidates := []MediaItem{
		{Title: "Monster", Year: 2004, Genres: []string{"Mystery", "Psychological", "Thriller", "Drama"}},
		{Title: "Code Geass", Year: 2006, Genres: []string{"Mecha"}},
		{Title: "Steins;Gate", Year: 2011},
		{Title: "Fourth", Year: 2012},
	}

	msg := BuildFallbackMessage(&MediaItem{Title: "Death Note"}, candidates, "OpenAI quota exceeded. Showing basic recommendations.")

	require.True(t, strings.HasPrefix(msg, "OpenAI quota exceeded. Showing basic recommendations.\n\n"))
	require.Contains(t, msg, "Based on your favorite: Death Note")
	require.Contains(t, msg, "- Monster (2004)")
	// Genre line lists at most three genres.
	require.Contains(t, msg, "• Shares genres: Mystery, Psychological, Thriller")
	require.NotContains(t, msg, "Drama")
	require.Contains(t, msg, "- Steins;Gate (2011)")
	// Only three bullets.
	require.NotContains(t, msg, "Fourth")
}

func TestBuildFallbackMessageNoFavorite(t *testing.T) {
	msg := BuildFallbackMessage(nil, nil, "No AI provider configured. Showing basic recommendations.")
	require.NotContains(t, msg, "Based on your favorite")
	require.Contains(t, msg, "could not fetch similar titles")
}
