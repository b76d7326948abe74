// launching the server, redis, kafka and the render pipeline
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/media-editor/config"
	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/database"
	"github.com/ds124wfegd/media-editor/internal/filter"
	"github.com/ds124wfegd/media-editor/internal/pkg/kafka"
	"github.com/ds124wfegd/media-editor/internal/pkg/processor"
	"github.com/ds124wfegd/media-editor/internal/pkg/redis"
	"github.com/ds124wfegd/media-editor/internal/pkg/storage"
	"github.com/ds124wfegd/media-editor/internal/service"
	"github.com/ds124wfegd/media-editor/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewProcessor builds the render pipeline shared by the API and the kafka consumer.
func NewProcessor(cfg *config.Config, repo database.ImageRepository) (processor.ImageProcessor, error) {
	order, err := filter.ParseKinds(cfg.Render.Order)
	if err != nil {
		return nil, err
	}
	return processor.NewImageProcessor(repo, backend.NewImagingBackend(), processor.Options{
		Order:        order,
		OutputFormat: cfg.Render.OutputFormat,
		JPEGQuality:  cfg.Render.JPEGQuality,
		MaxPixels:    cfg.Render.MaxPixels,
	}), nil
}

func newHistoryRepository(ctx context.Context, cfg *config.Config) (database.HistoryRepository, func()) {
	if !cfg.Redis.Enabled {
		logrus.Info("Redis disabled, keeping customization history in memory")
		return database.NewMemoryHistoryRepository(), func() {}
	}

	client, err := redis.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, keeping customization history in memory: %v", err)
		return database.NewMemoryHistoryRepository(), func() {}
	}
	return database.NewRedisHistoryRepository(client, cfg.Redis.SessionTTL), func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("error occured on redis close: %s", err.Error())
		}
	}
}

func newProducer(cfg *config.Config, proc processor.ImageProcessor) kafka.Producer {
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err == nil {
			return producer
		}
		logrus.Warnf("Kafka unavailable, rendering in process: %v", err)
	} else {
		logrus.Info("Kafka disabled, rendering in process")
	}
	return kafka.NewLocalProducer(proc.HandleMessage)
}

func NewServer(cfg *config.Config) error {
	ctx := context.Background()

	fileStorage := storage.NewFileStorage(cfg.Storage.BasePath)
	imgRepo := database.NewImageRepository(fileStorage)

	imgProcessor, err := NewProcessor(cfg, imgRepo)
	if err != nil {
		return err
	}

	history, closeHistory := newHistoryRepository(ctx, cfg)
	defer closeHistory()

	producer := newProducer(cfg, imgProcessor)
	defer producer.Close()

	imgService := service.NewImageService(imgRepo, history, producer, imgProcessor)
	imgHandler := transport.NewImageHandler(imgService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(imgHandler, cfg.Server.Timeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	return nil
}
