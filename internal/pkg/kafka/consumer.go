package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Consume reads the topic until ctx is cancelled. Handler errors are logged and
// the message is committed anyway: a render that failed once fails again.
func Consume(ctx context.Context, brokers []string, topic, groupID string, handler MessageHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.WithField("brokers", brokers).Infof("Render consumer started on topic %s", topic)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logrus.Info("Render consumer stopped")
				return nil
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		entry := logrus.WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
			"key":       string(msg.Key),
		})
		entry.Debug("Received render task")

		if err := handler(ctx, msg.Value); err != nil {
			entry.Errorf("Render task failed: %v", err)
		}
	}
}
