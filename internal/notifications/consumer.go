package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"reservio/pkg/logger"
)

// Consumer drains the outbound queue and hands messages to the email
// sender. Failed sends are retried by not marking the offset.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
	OffsetOldest   bool
}

func DefaultConsumerConfig(brokers []string, topic string) *ConsumerConfig {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	if topic == "" {
		topic = "reservio-notifications"
	}
	return &ConsumerConfig{
		Brokers:        brokers,
		GroupID:        "reservio-notification-workers",
		Topics:         []string{topic},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
	}
}

type kafkaConsumer struct {
	group  sarama.ConsumerGroup
	config *ConsumerConfig
	sender EmailSender
	cancel context.CancelFunc
	log    *logger.Logger
}

func NewKafkaConsumer(config *ConsumerConfig, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:  group,
		config: config,
		sender: sender,
		log:    logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("notification consumer error", slog.String("error", err.Error()))
		}
	}()

	for i := 0; i < numWorkers; i++ {
		go c.runWorker(ctx, i)
	}

	c.log.Info("notification workers started",
		slog.Int("workers", numWorkers),
		slog.Any("topics", c.config.Topics),
	)
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerHandler{sender: c.sender, workerID: workerID, log: c.log}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.config.Topics, handler); err != nil {
				c.log.Error("notification worker consume failed",
					slog.Int("worker", workerID),
					slog.String("error", err.Error()),
				)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.group.Close()
}

type consumerHandler struct {
	sender   EmailSender
	workerID int
	log      *logger.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			decoded, err := MessageFromJSON(message.Value)
			if err != nil {
				// Malformed payloads are dropped, never redelivered.
				h.log.Error("dropping malformed notification",
					slog.Int("worker", h.workerID),
					slog.String("error", err.Error()),
				)
				session.MarkMessage(message, "")
				continue
			}
			if err := h.sender.SendTemplate(session.Context(), decoded.Recipient, decoded.Template, decoded.Payload); err != nil {
				h.log.Error("notification send failed",
					slog.Int("worker", h.workerID),
					slog.String("queue_id", decoded.ID.String()),
					slog.String("error", err.Error()),
				)
				// Left unmarked so the group redelivers it.
				continue
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

