package curator

import (
	"fmt"
	"strings"
)

const (
	favoriteSummaryLimit  = 500
	candidateSummaryLimit = 400

	maxPromptCandidates = 6
	maxFallbackPicks    = 3
	maxFallbackGenres   = 3
)

// BuildRecommendationPrompt renders the user prompt handed to a generation
// provider: a labeled favorite section, a numbered candidate list, and the
// curation task instruction.
func BuildRecommendationPrompt(userMessage string, favorite *MediaItem, candidates []MediaItem) string {
	favText := "Favorite anime: Could not find exact match."
	if favorite != nil {
		favText = fmt.Sprintf(
			"Favorite anime (from AniList):\n- Title: %s\n- Year: %s\n- Genres: %s\n- Summary: %s",
			favorite.Title,
			yearLabel(favorite.Year),
			genreLabel(favorite.Genres),
			truncate(favorite.Description, favoriteSummaryLimit),
		)
	}

	shown := candidates
	if len(shown) > maxPromptCandidates {
		shown = shown[:maxPromptCandidates]
	}
	candLines := make([]string, 0, len(shown))
	for i, c := range shown {
		candLines = append(candLines, fmt.Sprintf(
			"#%d %s (%s)\nGenres: %s\nSummary: %s",
			i+1,
			c.Title,
			yearLabel(c.Year),
			genreLabel(c.Genres),
			truncate(c.Description, candidateSummaryLimit),
		))
	}

	return fmt.Sprintf(
		"User message: %s\n\n%s\n\nCandidates from AniList (potentially similar):\n%s\n\nTask: Choose 2-3 titles that best match the user's tastes inferred from the favorite and message. For each, provide:\n- Title\n- 1-2 sentence reason of similarity\n- Optionally mention genre/year hooks.\nKeep it concise.",
		userMessage,
		favText,
		strings.Join(candLines, "\n\n"),
	)
}

// BuildFallbackMessage synthesizes the deterministic assistant reply used
// when no generation provider produced narration.
func BuildFallbackMessage(favorite *MediaItem, candidates []MediaItem, hint string) string {
	var b strings.Builder
	if hint != "" {
		b.WriteString(hint)
		b.WriteString("\n\n")
	}
	if favorite != nil && favorite.Title != "" {
		fmt.Fprintf(&b, "Based on your favorite: %s\n\n", favorite.Title)
	}
	if len(candidates) == 0 {
		b.WriteString("I could not fetch similar titles right now. Try another title or retry in a moment.")
		return b.String()
	}

	picks := candidates
	if len(picks) > maxFallbackPicks {
		picks = picks[:maxFallbackPicks]
	}
	bullets := make([]string, 0, len(picks))
	for _, c := range picks {
		title := c.Title
		if title == "" {
			title = "Unknown"
		}
		line := "- " + title
		if c.Year != 0 {
			line += fmt.Sprintf(" (%d)", c.Year)
		}
		if len(c.Genres) > 0 {
			genres := c.Genres
			if len(genres) > maxFallbackGenres {
				genres = genres[:maxFallbackGenres]
			}
			line += "\n  • Shares genres: " + strings.Join(genres, ", ")
		}
		bullets = append(bullets, line)
	}
	b.WriteString("Here are a few recommendations you might like:\n\n")
	b.WriteString(strings.Join(bullets, "\n"))
	return b.String()
}

// truncate cuts text to at most max runes, marking the cut with a single
// ellipsis so truncated output is exactly max runes long.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}

func yearLabel(year int) string {
	if year == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d", year)
}

func genreLabel(genres []string) string {
	if len(genres) == 0 {
		return "N/A"
	}
	return strings.Join(genres, ", ")
}
