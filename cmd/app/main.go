// entry point to app :)
package main

import (
	"errors"

	"github.com/ds124wfegd/media-editor/config"
	"github.com/ds124wfegd/media-editor/internal/appServer"
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
		logrus.Warn("Config file not found, using defaults")
		viperInstance = config.Defaults()
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	if lvl, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(lvl)
	}

	if err := appServer.NewServer(cfg); err != nil {
		logrus.Fatalf("Cannot start server. Error: {%s}", err.Error())
	}
}
