//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"notify_hub/internal/app"
	"notify_hub/internal/config"
	"notify_hub/internal/http"
	"notify_hub/internal/http/controller"
	"notify_hub/internal/logging"
	"notify_hub/internal/queue/rabbitmq"
	"notify_hub/internal/service/notify"
	"notify_hub/internal/store"
	"notify_hub/internal/ws"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		store.NewStore,
		ws.NewHub,
		ws.NewHandler,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
