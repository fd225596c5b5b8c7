// Package events publishes Ethos change notifications whenever an EEDM
// resource is created, replaced or deleted.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Operations carried by a change notification.
const (
	OperationCreated  = "created"
	OperationReplaced = "replaced"
	OperationDeleted  = "deleted"
)

// Resource identifies the changed representation.
type Resource struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}

// Notification is the change notification envelope.
type Notification struct {
	ID          uuid.UUID       `json:"id"`
	Published   time.Time       `json:"published"`
	Resource    Resource        `json:"resource"`
	Operation   string          `json:"operation"`
	ContentType string          `json:"contentType,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// Publisher sends change notifications.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// NewNotification stamps a notification with a fresh id and the current
// time. content may be nil for deletes.
func NewNotification(resource, id, version, operation string, content any) (Notification, error) {
	n := Notification{
		ID:        uuid.New(),
		Published: time.Now().UTC(),
		Resource:  Resource{Name: resource, ID: id, Version: version},
		Operation: operation,
	}
	if content != nil {
		raw, err := json.Marshal(content)
		if err != nil {
			return Notification{}, err
		}
		n.ContentType = "resource-representation"
		n.Content = raw
	}
	return n, nil
}

// WriterInterface is the part of *kafka.Writer the publisher needs.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Kafka publishes notifications to a kafka topic, keyed by resource name so
// every change to one resource type lands on the same partition.
type Kafka struct {
	writer WriterInterface
}

// NewKafka wraps writer.
func NewKafka(writer WriterInterface) *Kafka {
	return &Kafka{writer: writer}
}

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}

func (k *Kafka) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.Resource.Name),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(n.Operation)},
		},
	})
}

// Log writes notifications to the logger. It is used when no brokers are
// configured.
type Log struct {
	log *slog.Logger
}

// NewLog creates a log-only publisher.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Publish(_ context.Context, n Notification) error {
	l.log.Info("change notification",
		slog.String("id", n.ID.String()),
		slog.String("resource", n.Resource.Name),
		slog.String("resource_id", n.Resource.ID),
		slog.String("operation", n.Operation),
	)
	return nil
}
