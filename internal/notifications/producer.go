package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"reservio/pkg/logger"
)

// Producer publishes notification messages onto the outbound queue.
type Producer interface {
	Enqueue(ctx context.Context, template, recipient string, payload map[string]interface{}) (string, error)
	Close() error
}

type KafkaProducerConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	if topic == "" {
		topic = "reservio-notifications"
	}
	return &KafkaProducerConfig{
		Brokers:  brokers,
		Topic:    topic,
		RetryMax: 3,
		Timeout:  10 * time.Second,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

func NewKafkaProducer(config *KafkaProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	// Messages for one recipient always land on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Enqueue(ctx context.Context, template, recipient string, payload map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message := &Message{
		ID:        uuid.New(),
		Template:  template,
		Recipient: recipient,
		Payload:   payload,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	body, err := message.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(message.PartitionKey()),
		Value:     sarama.ByteEncoder(body),
		Timestamp: message.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to enqueue notification: %w", err)
	}

	p.log.Debug("notification enqueued",
		slog.String("queue_id", message.ID.String()),
		slog.String("template", template),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return message.ID.String(), nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}
