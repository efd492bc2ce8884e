package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/anime-curator/pkg/errors"
	"github.com/yanqian/anime-curator/pkg/tokens"
)

const defaultSystemPrompt = "You are an expert anime curator. Be concise and friendly. Use short paragraphs and bullet points."

// Service answers chat requests with narrated anime recommendations.
type Service interface {
	Chat(ctx context.Context, req Request) (Response, error)
}

// CatalogClient reads from the external anime catalog.
type CatalogClient interface {
	// LookupByTitle resolves a title query; found is false when the catalog
	// reports no match.
	LookupByTitle(ctx context.Context, query string) (item MediaItem, found bool, err error)
	// ListSimilar returns raw candidates for the reference item. A nil error
	// with an empty slice is a legal degraded result.
	ListSimilar(ctx context.Context, reference MediaItem) ([]MediaItem, error)
}

// Generator narrates recommendations from a system instruction and a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

type service struct {
	cfg        Config
	catalog    CatalogClient
	generators []Generator
	counter    *tokens.Counter
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the curator domain. Generators are tried in slice
// order; an empty slice is a legal degraded configuration.
func NewService(cfg Config, catalog CatalogClient, generators []Generator, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		catalog:    catalog,
		generators: generators,
		counter:    tokens.NewCounter(cfg.Model),
		logger:     logger.With("component", "curator.service"),
		now:        time.Now,
	}
}

func (s *service) Chat(ctx context.Context, req Request) (Response, error) {
	latest, err := latestUserMessage(req.Messages)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Similar: []MediaItem{},
		Errors:  []APIError{},
	}

	query := strings.TrimSpace(latest.Content)

	favorite, elapsed, err := s.resolveFavorite(ctx, query)
	resp.Timings.AnilistFavoriteMs = elapsed
	if err != nil {
		resp.Errors = append(resp.Errors, APIError{Source: "catalog", Message: apperrors.Message(err)})
	} else {
		resp.Favorite = favorite
	}

	var ranked []RankedCandidate
	if resp.Favorite != nil {
		ranked, elapsed, err = s.resolveCandidates(ctx, *resp.Favorite)
		resp.Timings.AnilistSimilarMs = elapsed
		if err != nil {
			resp.Errors = append(resp.Errors, APIError{Source: "catalog", Message: apperrors.Message(err)})
		} else {
			resp.Similar = Items(ranked)
		}
	}

	prompt := BuildRecommendationPrompt(latest.Content, resp.Favorite, resp.Similar)
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("prompt composed", "tokens", s.counter.Count(prompt), "candidates", len(resp.Similar))
	}

	system := s.systemPrompt()
	hint := ""
	for _, gen := range s.generators {
		text, genErr := gen.Generate(ctx, system, prompt)
		if genErr == nil && strings.TrimSpace(text) != "" {
			resp.Timings.AIProvider = gen.Name()
			resp.AssistantMessage = Message{Role: RoleAssistant, Content: text}
			return resp, nil
		}
		if genErr == nil {
			genErr = errors.New("provider returned no content")
		}
		apiErr := APIError{Source: "provider", Message: fmt.Sprintf("%s: %s", gen.Name(), genErr.Error())}
		hint = fmt.Sprintf("%s unavailable. Showing basic recommendations.", gen.Name())
		var quota *QuotaError
		if errors.As(genErr, &quota) {
			apiErr.Status = quota.Status
			hint = fmt.Sprintf("%s quota exceeded. Showing basic recommendations.", gen.Name())
		}
		resp.Errors = append(resp.Errors, apiErr)
		s.logger.Warn("generation provider failed", "provider", gen.Name(), "error", genErr)
	}

	if len(s.generators) == 0 {
		resp.Errors = append(resp.Errors, APIError{Source: "unknown", Message: "No AI provider configured"})
		hint = "No AI provider configured. Showing basic recommendations."
	}

	resp.Timings.AIProvider = "none"
	resp.AssistantMessage = Message{
		Role:    RoleAssistant,
		Content: BuildFallbackMessage(resp.Favorite, resp.Similar, hint),
	}
	return resp, nil
}

func (s *service) resolveFavorite(ctx context.Context, query string) (*MediaItem, int64, error) {
	start := s.now()
	s.logger.Info("catalog title lookup", "search", query)
	item, found, err := s.catalog.LookupByTitle(ctx, query)
	elapsed := s.now().Sub(start).Milliseconds()
	if err != nil {
		return nil, elapsed, apperrors.Wrap("catalog", "favorite lookup failed", err)
	}
	if !found {
		s.logger.Info("catalog title lookup found no match", "search", query, "elapsed_ms", elapsed)
		return nil, elapsed, nil
	}
	s.logger.Info("catalog title resolved", "title", item.Title, "id", item.ID, "elapsed_ms", elapsed)
	return &item, elapsed, nil
}

func (s *service) resolveCandidates(ctx context.Context, favorite MediaItem) ([]RankedCandidate, int64, error) {
	start := s.now()
	s.logger.Info("catalog similar listing", "id", favorite.ID, "genres", favorite.Genres, "year", favorite.Year)
	candidates, err := s.catalog.ListSimilar(ctx, favorite)
	elapsed := s.now().Sub(start).Milliseconds()
	if err != nil {
		return nil, elapsed, apperrors.Wrap("catalog", "similar lookup failed", err)
	}
	ranked := Rank(favorite, candidates)
	s.logger.Info("catalog similar ranked", "candidates", len(candidates), "ranked", len(ranked), "elapsed_ms", elapsed)
	return ranked, elapsed, nil
}

func (s *service) systemPrompt() string {
	if prompt := strings.TrimSpace(s.cfg.SystemPrompt); prompt != "" {
		return prompt
	}
	return defaultSystemPrompt
}

// latestUserMessage validates the conversation and picks the message driving
// this request cycle.
func latestUserMessage(messages []Message) (Message, error) {
	if len(messages) == 0 {
		return Message{}, apperrors.Wrap("validation", "messages cannot be empty", nil)
	}
	for _, m := range messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return Message{}, apperrors.Wrap("validation", fmt.Sprintf("unsupported message role %q", m.Role), nil)
		}
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i], nil
		}
	}
	return Message{}, apperrors.Wrap("validation", "No user message found", nil)
}
