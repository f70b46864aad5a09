package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"eventDeskProxy/internal/modules/events/application/port"
	"eventDeskProxy/internal/modules/events/domain"
)

const (
	registrationEntity = "registrations"
	registrationAction = "created"
	writeTimeout       = 5 * time.Second
	batchTimeout       = 10 * time.Millisecond
)

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher announces accepted registrations on a single topic.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher returns nil when no brokers are configured so callers can
// fall back to a no-op publisher.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if len(brokers) == 0 {
		return nil
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           batchTimeout,
			WriteTimeout:           writeTimeout,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// rawEvent is the envelope every message on the bus shares.
type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       interface{}       `json:"data"`
}

// PublishRegistration writes one message keyed by the event id.
func (p *KafkaPublisher) PublishRegistration(ctx context.Context, event domain.RegistrationEvent) error {
	msg, err := encodeRegistration(p.topic, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", p.topic, err)
	}
	slog.Info("kafka registration published",
		slog.String("topic", p.topic),
		slog.String("id", event.ID),
		slog.Int64("eventId", event.EventID),
		slog.Int("attendees", event.AttendeeCount),
	)
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeRegistration(topic string, event domain.RegistrationEvent) (kafka.Message, error) {
	envelope := rawEvent{
		Entity:     registrationEntity,
		Action:     registrationAction,
		ResourceID: strconv.FormatInt(event.EventID, 10),
		Topic:      firstNonEmpty(topic, registrationEntity+"."+registrationAction),
		Metadata: map[string]string{
			"eventId": strconv.FormatInt(event.EventID, 10),
			"status":  strconv.Itoa(event.Status),
		},
		Data: event,
	}
	if event.TicketID > 0 {
		envelope.Metadata["ticketId"] = strconv.FormatInt(event.TicketID, 10)
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode registration event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
		Time:  event.OccurredAt,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ port.RegistrationPublisher = (*KafkaPublisher)(nil)
