//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/bloom-backend/internal/bootstrap"
	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
	"github.com/yanqian/bloom-backend/internal/infra/config"
	"github.com/yanqian/bloom-backend/internal/infra/earthengine"
	httpiface "github.com/yanqian/bloom-backend/internal/interface/http"
	"github.com/yanqian/bloom-backend/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideBloomConfig,
		provideChatbotConfig,
		provideEarthEngineClient,
		provideIndexProvider,
		provideModelLoader,
		provideReferenceSource,
		provideSemantic,
		wire.Bind(new(bloom.ImageryProvider), new(*earthengine.Client)),
		bloom.NewVegetationGateway,
		bloom.NewImageryGateway,
		bloom.NewForecastGateway,
		bloom.NewService,
		chatbot.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
