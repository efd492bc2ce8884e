package curator

import "fmt"

// Message roles accepted on the chat endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MediaItem is the catalog representation of an anime title. Instances are
// built once from a catalog response and never mutated.
type MediaItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
}

// RankedCandidate pairs a candidate with its similarity score against the
// reference item. Produced only during ranking.
type RankedCandidate struct {
	Item  MediaItem
	Score float64
}

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the payload accepted by the chat service.
type Request struct {
	Messages []Message `json:"messages"`
}

// APIError records a recoverable failure encountered while serving a request.
type APIError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// Timings carries per-request diagnostics returned alongside the answer.
type Timings struct {
	AnilistFavoriteMs int64  `json:"anilistFavoriteMs,omitempty"`
	AnilistSimilarMs  int64  `json:"anilistSimilarMs,omitempty"`
	AIProvider        string `json:"aiProvider,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	AssistantMessage Message     `json:"assistantMessage"`
	Favorite         *MediaItem  `json:"favorite"`
	Similar          []MediaItem `json:"similar"`
	Errors           []APIError  `json:"errors"`
	Timings          Timings     `json:"timings"`
}

// Config wires runtime settings for the curator domain.
type Config struct {
	SystemPrompt string
	Model        string
}

// QuotaError marks a rate-limit or quota failure signaled by a generation
// provider. The orchestrator surfaces the upstream status and swaps the
// fallback hint accordingly.
type QuotaError struct {
	Status int
	Err    error
}

func (e *QuotaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quota exceeded (status=%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("quota exceeded (status=%d)", e.Status)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}
