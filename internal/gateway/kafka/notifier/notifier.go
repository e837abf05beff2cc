package notifier

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Requester notifications published to Kafka",
	},
	[]string{"kind", "result"},
)

// Notifier публикует уведомления заявителям. Ошибки только логируются:
// доставка заявки от уведомления не зависит.
type Notifier struct {
	producer producer
	topic    string
	log      handlerLogger
}

func New(producer producer, topic string, log handlerLogger) *Notifier {
	return &Notifier{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

func (n *Notifier) Notify(ctx context.Context, notifications ...entities.Notification) {
	if len(notifications) == 0 || ctx.Err() != nil {
		return
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(notifications))
	sent := make([]entities.Notification, 0, len(notifications))
	for _, nt := range notifications {
		payload, err := json.Marshal(toMessage(nt))
		if err != nil {
			n.log.Error("encode notification",
				logger.NewField("request_id", nt.RequestID),
				logger.NewField("error", err),
			)
			continue
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: n.topic,
			// ключ по заявке: события одной заявки попадают в одну партицию по порядку
			Key:   sarama.StringEncoder(nt.RequestID),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte("notification_id"), Value: []byte(nt.ID)},
			},
		})
		sent = append(sent, nt)
	}
	if len(msgs) == 0 {
		return
	}

	err := n.producer.SendMessages(msgs)
	if err == nil {
		for _, nt := range sent {
			NotificationsTotal.WithLabelValues(string(nt.Kind), "ok").Inc()
		}
		return
	}

	failed := map[*sarama.ProducerMessage]error{}
	var perrs sarama.ProducerErrors
	if errors.As(err, &perrs) {
		for _, pe := range perrs {
			failed[pe.Msg] = pe.Err
		}
	}
	for i, msg := range msgs {
		result := "ok"
		if msgErr, ok := failed[msg]; ok || len(failed) == 0 {
			result = "error"
			if msgErr == nil {
				msgErr = err
			}
			n.log.Warn("publish notification failed",
				logger.NewField("request_id", sent[i].RequestID),
				logger.NewField("kind", sent[i].Kind),
				logger.NewField("error", msgErr),
			)
		}
		NotificationsTotal.WithLabelValues(string(sent[i].Kind), result).Inc()
	}
}

func toMessage(n entities.Notification) message {
	return message{
		ID:          n.ID,
		Kind:        string(n.Kind),
		RequestID:   n.RequestID,
		RequesterID: n.RequesterID,
		Provider:    n.Provider.String(),
		TrackingURL: n.TrackingURL,
		CreatedAt:   n.CreatedAt,
	}
}
