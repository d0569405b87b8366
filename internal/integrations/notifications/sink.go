package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const routingKeyPrefix = "notification."

// JSONPublisher публикует сообщения в брокер
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Envelope сообщение об уведомлении в брокере
type Envelope struct {
	ID            string                 `json:"id"`
	TemplateKey   string                 `json:"template_key"`
	RecipientKind string                 `json:"recipient_kind"`
	RecipientID   int64                  `json:"recipient_id"`
	Data          map[string]interface{} `json:"data"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

// NewEnvelope оборачивает уведомление в сообщение с уникальным ID
func NewEnvelope(n domain.Notification) Envelope {
	return Envelope{
		ID:            uuid.NewString(),
		TemplateKey:   n.TemplateKey,
		RecipientKind: string(n.Recipient.Kind),
		RecipientID:   n.Recipient.ID,
		Data:          n.Data,
		OccurredAt:    n.OccurredAt.UTC(),
	}
}

// RoutingKey ключ маршрутизации уведомления, например notification.booking_created
func RoutingKey(templateKey string) string {
	return routingKeyPrefix + templateKey
}

// BrokerSink отправляет уведомления в RabbitMQ
type BrokerSink struct {
	publisher JSONPublisher
}

// NewBrokerSink создает отправителя уведомлений через брокер
func NewBrokerSink(publisher JSONPublisher) *BrokerSink {
	return &BrokerSink{publisher: publisher}
}

// Notify публикует уведомление
func (s *BrokerSink) Notify(ctx context.Context, n domain.Notification) error {
	envelope := NewEnvelope(n)
	if err := s.publisher.PublishJSON(ctx, RoutingKey(n.TemplateKey), envelope); err != nil {
		return fmt.Errorf("notifications: publish %s to %s %d: %w", n.TemplateKey, n.Recipient.Kind, n.Recipient.ID, err)
	}
	return nil
}

// LogSink пишет уведомления в лог, когда брокер не настроен
type LogSink struct {
	log Logger
}

// NewLogSink создает отправителя уведомлений в лог
func NewLogSink(log Logger) *LogSink {
	return &LogSink{log: log}
}

// Notify пишет уведомление в лог
func (s *LogSink) Notify(_ context.Context, n domain.Notification) error {
	s.log.Info("Notification %s -> %s %d: booking_id=%v", n.TemplateKey, n.Recipient.Kind, n.Recipient.ID, n.Data["booking_id"])
	return nil
}
