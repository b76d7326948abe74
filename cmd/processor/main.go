// render worker: consumes render tasks from kafka
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/media-editor/config"
	"github.com/ds124wfegd/media-editor/internal/appServer"
	"github.com/ds124wfegd/media-editor/internal/database"
	"github.com/ds124wfegd/media-editor/internal/pkg/kafka"
	"github.com/ds124wfegd/media-editor/internal/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
		}
		viperInstance = config.Defaults()
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	imgRepo := database.NewImageRepository(storage.NewFileStorage(cfg.Storage.BasePath))
	imgProcessor, err := appServer.NewProcessor(cfg, imgRepo)
	if err != nil {
		logrus.Fatalf("Cannot build render pipeline. Error: {%s}", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kafka.Consume(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, imgProcessor.HandleMessage); err != nil {
		logrus.Fatalf("Render consumer failed. Error: {%s}", err.Error())
	}
}
