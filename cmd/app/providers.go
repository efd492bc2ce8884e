package main

import (
	"log/slog"
	"strings"

	"github.com/yanqian/anime-curator/internal/domain/curator"
	"github.com/yanqian/anime-curator/internal/infra/catalog/anilist"
	"github.com/yanqian/anime-curator/internal/infra/config"
	"github.com/yanqian/anime-curator/internal/infra/llm/chatgpt"
	"github.com/yanqian/anime-curator/internal/infra/llm/gemini"
)

func provideCuratorConfig(cfg *config.Config) curator.Config {
	return curator.Config{
		SystemPrompt: cfg.Curator.SystemPrompt,
		Model:        cfg.OpenAI.Model,
	}
}

func provideCatalogClient(cfg *config.Config, logger *slog.Logger) *anilist.Client {
	return anilist.NewClient(cfg.Catalog.BaseURL, logger)
}

// provideGenerators builds the provider priority list from configured
// credentials. Gemini outranks OpenAI; either may be absent and an empty
// list degrades the service to templated fallbacks.
func provideGenerators(cfg *config.Config, logger *slog.Logger) ([]curator.Generator, error) {
	var generators []curator.Generator

	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		client, err := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		logger.Info("gemini provider enabled", "model", cfg.Gemini.Model)
		generators = append(generators, client)
	}

	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		client, err := chatgpt.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("openai provider enabled", "model", cfg.OpenAI.Model)
		generators = append(generators, chatgpt.NewGenerator(client, cfg.OpenAI.Model, cfg.OpenAI.Temperature))
	}

	if len(generators) == 0 {
		logger.Warn("no generation provider configured, responses fall back to templated recommendations")
	}
	return generators, nil
}
