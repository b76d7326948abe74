package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	SendMessage(ctx context.Context, key string, message interface{}) error
	Close() error
}

var ErrProducerClosed = errors.New("producer closed")

// MessageHandler processes one raw message value.
type MessageHandler func(ctx context.Context, value []byte) error

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer checks that a broker is reachable and creates the topic if needed.
func NewProducer(brokers []string, topic string) (Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, fmt.Errorf("kafka connection failed: %w", err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.Warnf("Could not create topic %s (might already exist): %v", topic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logrus.WithField("brokers", brokers).Infof("Kafka producer configured for topic %s", topic)
	return &kafkaProducer{writer: writer, topic: topic}, nil
}

func (p *kafkaProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: messageBytes,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.Errorf("Failed to write message to Kafka: %v", err)
		return err
	}

	logrus.WithField("key", key).Debugf("Message sent to topic %s", p.topic)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// localProducer hands messages to a handler in the same process. It stands in
// for kafka when no broker is available. A single worker runs the handler, so
// tasks complete in the order they were sent.
type localProducer struct {
	handler MessageHandler
	queue   chan localMessage
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

type localMessage struct {
	key   string
	value []byte
}

const localQueueSize = 64

func NewLocalProducer(handler MessageHandler) Producer {
	p := &localProducer{
		handler: handler,
		queue:   make(chan localMessage, localQueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *localProducer) run() {
	defer close(p.done)
	for msg := range p.queue {
		if err := p.handler(context.Background(), msg.value); err != nil {
			logrus.WithField("key", msg.key).Errorf("Local processing failed: %v", err)
		}
	}
}

func (p *localProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}

	select {
	case p.queue <- localMessage{key: key, value: messageBytes}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages and waits for queued ones to be handled.
func (p *localProducer) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}
