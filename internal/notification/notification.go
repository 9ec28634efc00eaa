package notification

import (
	"context"
	"encoding/json"
	"time"

	"hr-dashboard/internal/events"
	"hr-dashboard/internal/observability/metrics"
	"hr-dashboard/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier delivers a short user facing message. Delivery is fire and
// forget: failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, recipientID, message string)
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notification.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.log")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(ctx context.Context, kind Kind, recipientID, message string) {
	contextutil.GetLogger(ctx, n.logger).Info("notification",
		zap.String("kind", string(kind)),
		zap.String("recipient_id", recipientID),
		zap.String("message", message),
	)
	metrics.ObserveNotification(string(kind))
}

// MessageWriter is the subset of *kafkago.Writer the notifier needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type KafkaNotifier struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
	now    func() time.Time
}

func NewKafkaNotifier(writer MessageWriter, topic string, logger ...*zap.Logger) *KafkaNotifier {
	l := zap.L().Named("notification.kafka")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.kafka")
	}
	if topic == "" {
		topic = events.NotificationTopic
	}
	return &KafkaNotifier{writer: writer, topic: topic, logger: l, now: time.Now}
}

func (n *KafkaNotifier) Notify(ctx context.Context, kind Kind, recipientID, message string) {
	payload, err := json.Marshal(events.NotificationEvent{
		Kind:        string(kind),
		RecipientID: recipientID,
		Message:     message,
		OccurredAt:  n.now().UTC(),
	})
	if err != nil {
		n.logger.Error("marshal notification failed", zap.Error(err))
		return
	}

	err = n.writer.WriteMessages(ctx, kafkago.Message{
		Topic: n.topic,
		Key:   []byte(recipientID),
		Value: payload,
	})
	if err != nil {
		n.logger.Error("publish notification failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
		return
	}
	metrics.ObserveNotification(string(kind))
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, kind Kind, recipientID, message string) {
	for _, n := range m {
		n.Notify(ctx, kind, recipientID, message)
	}
}
