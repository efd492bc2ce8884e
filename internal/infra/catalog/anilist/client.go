package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/anime-curator/internal/domain/curator"
)

const defaultBaseURL = "https://graphql.anilist.co"

const (
	maxFilterGenres = 3
	yearWindow      = 7
	pageSize        = 50
)

const mediaFields = `
	id
	title { romaji english native }
	description(asHtml: false)
	genres
	seasonYear
	coverImage { large }
`

var (
	searchQuery = fmt.Sprintf(`query ($search: String) {
	Media(search: $search, type: ANIME) {%s}
}`, mediaFields)

	filteredListQuery = fmt.Sprintf(`query ($genres: [String], $lower: Int, $upper: Int) {
	Page(perPage: %d) {
		media(
			type: ANIME,
			genre_in: $genres,
			seasonYear_greater: $lower,
			seasonYear_lesser: $upper,
			sort: POPULARITY_DESC
		) {%s}
	}
}`, pageSize, mediaFields)

	popularListQuery = fmt.Sprintf(`query {
	Page(perPage: %d) {
		media(type: ANIME, sort: POPULARITY_DESC) {%s}
	}
}`, pageSize, mediaFields)
)

// Client issues GraphQL read queries against the AniList catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a catalog client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("component", "anilist.client"),
	}
}

// LookupByTitle resolves a search query to a single catalog item.
func (c *Client) LookupByTitle(ctx context.Context, query string) (curator.MediaItem, bool, error) {
	var out struct {
		Media *media `json:"Media"`
	}
	if err := c.query(ctx, searchQuery, map[string]any{"search": query}, &out); err != nil {
		return curator.MediaItem{}, false, err
	}
	if out.Media == nil {
		return curator.MediaItem{}, false, nil
	}
	return out.Media.toItem(), true, nil
}

// ListSimilar fetches popularity-sorted candidates filtered by the
// reference's genres and release-year window. A failed filtered query falls
// back once to the unfiltered popular listing; a second failure degrades to
// an empty result without error.
func (c *Client) ListSimilar(ctx context.Context, reference curator.MediaItem) ([]curator.MediaItem, error) {
	items, err := c.listPage(ctx, filteredListQuery, filterVariables(reference))
	if err == nil {
		return items, nil
	}
	c.logger.Warn("filtered listing failed, falling back to popular", "id", reference.ID, "error", err)

	items, err = c.listPage(ctx, popularListQuery, map[string]any{})
	if err != nil {
		c.logger.Warn("popular listing failed", "error", err)
		return nil, nil
	}
	return items, nil
}

func filterVariables(reference curator.MediaItem) map[string]any {
	genres := reference.Genres
	if len(genres) > maxFilterGenres {
		genres = genres[:maxFilterGenres]
	}
	vars := map[string]any{"genres": nil, "lower": nil, "upper": nil}
	if len(genres) > 0 {
		vars["genres"] = genres
	}
	if reference.Year != 0 {
		vars["lower"] = reference.Year - yearWindow
		vars["upper"] = reference.Year + yearWindow
	}
	return vars
}

func (c *Client) listPage(ctx context.Context, query string, variables map[string]any) ([]curator.MediaItem, error) {
	var out struct {
		Page struct {
			Media []media `json:"media"`
		} `json:"Page"`
	}
	if err := c.query(ctx, query, variables, &out); err != nil {
		return nil, err
	}
	items := make([]curator.MediaItem, 0, len(out.Page.Media))
	for _, m := range out.Page.Media {
		items = append(items, m.toItem())
	}
	return items, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("encode anilist request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build anilist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anilist request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read anilist response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("AniList HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode anilist response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		message := envelope.Errors[0].Message
		if message == "" {
			message = "Unknown GraphQL error"
		}
		return errors.New("AniList error: " + message)
	}
	if len(envelope.Data) == 0 {
		return errors.New("anilist response missing data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode anilist data: %w", err)
	}
	return nil
}

type media struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	SeasonYear  int      `json:"seasonYear"`
	CoverImage  struct {
		Large string `json:"large"`
	} `json:"coverImage"`
}

func (m media) toItem() curator.MediaItem {
	title := firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native)
	if title == "" {
		title = "Unknown"
	}
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return curator.MediaItem{
		ID:          m.ID,
		Title:       title,
		Description: m.Description,
		Genres:      genres,
		Year:        m.SeasonYear,
		CoverImage:  m.CoverImage.Large,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
