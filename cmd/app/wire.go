//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/anime-curator/internal/bootstrap"
	"github.com/yanqian/anime-curator/internal/domain/curator"
	"github.com/yanqian/anime-curator/internal/infra/catalog/anilist"
	"github.com/yanqian/anime-curator/internal/infra/config"
	httpiface "github.com/yanqian/anime-curator/internal/interface/http"
	"github.com/yanqian/anime-curator/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCuratorConfig,
		provideCatalogClient,
		provideGenerators,
		curator.NewService,
		wire.Bind(new(curator.CatalogClient), new(*anilist.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
