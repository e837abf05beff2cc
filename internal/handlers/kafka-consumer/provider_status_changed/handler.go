package provider_status_changed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"dispatch/internal/entities"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"
)

type Handler struct {
	service                  Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, service Service, timeout time.Duration) *Handler {
	return &Handler{
		service:                  service,
		log:                      log.With(logger.NewField("handler", "provider.status.changed")),
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			if shouldExit := h.messageProcessing(sess, message); shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение.
// true - прервать ConsumeClaim, сообщение не помечено и будет прочитано снова.
// Остальные ошибки не повторяем: заказ все равно догонит опрос.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event statusChangedEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		h.log.Error("bad message",
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		)
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("provider", event.Provider),
		logger.NewField("provider_order_id", event.ProviderOrderID),
		logger.NewField("event_status", event.Status),
		logger.NewField("offset", message.Offset),
	)

	provider := entities.Provider(event.Provider)
	if !provider.Valid() || event.ProviderOrderID == "" {
		msgLog.Warn("event without known provider or order id, skipped")
		sess.MarkMessage(message, "")
		return false
	}

	err := h.service.HandleStatusEvent(ctx, provider, event.ProviderOrderID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			if sess.Context().Err() != nil {
				msgLog.Warn("context cancelled, message will be reprocessed", logger.NewField("error", err))
				return true
			}
			msgLog.Warn("processing timed out", logger.NewField("error", err))

		case errors.Is(err, tracking.ErrOrderNotFound):
			msgLog.Warn("event for unknown order")

		default:
			msgLog.Warn("failed to process event", logger.NewField("error", err))
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("processed")
	sess.MarkMessage(message, "")
	return false
}
