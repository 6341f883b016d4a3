// Package events : доменные события auth-сервиса (user.registered, user.logged_out).
// Доставка best-effort, ошибка публикации не влияет на ответ клиенту.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms-platform/config"
	"lms-platform/internal/ports"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	UserRegistered = "user.registered"
	UserLoggedOut  = "user.logged_out"
)

// Event : конверт сообщения в топике
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type UserLoggedOutPayload struct {
	UserID        string `json:"user_id"`
	RevokedTokens int64  `json:"revoked_tokens"`
}

// messageWriter : часть kafka.Writer, нужная публикатору
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(cfg *config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		// запрос пользователя не ждёт брокер, ошибки доставки только логируются
		Async: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Msg("kafka: delivery failed")
			}
		},
	}
	return &KafkaPublisher{writer: writer, now: time.Now}
}

// Publish : ключ сообщения это UUID пользователя, события одного пользователя идут в одну партицию
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	value, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now().UTC(), Payload: body})
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s failed: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher : используется, когда kafka.brokers не заданы
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType, key string, _ interface{}) error {
	log.Ctx(ctx).Debug().Str("event", eventType).Str("key", key).Msg("event publishing disabled")
	return nil
}

func (NoopPublisher) Close() error { return nil }

func New(cfg *config.KafkaConfig) ports.EventPublisher {
	if len(cfg.Brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}
