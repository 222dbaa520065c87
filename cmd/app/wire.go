//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/dailyreport/internal/bootstrap"
	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
	"github.com/yanqian/dailyreport/internal/infra/config"
	"github.com/yanqian/dailyreport/internal/infra/eventsource"
	"github.com/yanqian/dailyreport/internal/infra/mailer"
	httpiface "github.com/yanqian/dailyreport/internal/interface/http"
	"github.com/yanqian/dailyreport/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRegistry,
		provideJobMetrics,
		provideMetricsHandler,
		provideLocation,
		provideEventSource,
		provideChatClient,
		provideTokenCounter,
		provideGeneratorConfig,
		provideBlobStorage,
		provideLogStore,
		provideMailer,
		mailer.NewMarkdownRenderer,
		provideNotifierConfig,
		provideRunLock,
		provideRunRepository,
		provideJobConfig,
		provideWeatherService,
		provideScheduler,
		provideHandler,
		dailyreport.NewGenerator,
		dailyreport.NewNotifier,
		dailyreport.NewJob,
		wire.Bind(new(dailyreport.EventSource), new(*eventsource.Client)),
		wire.Bind(new(dailyreport.Mailer), new(*mailer.SMTPMailer)),
		wire.Bind(new(dailyreport.Renderer), new(*mailer.MarkdownRenderer)),
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
