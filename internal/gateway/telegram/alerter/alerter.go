// Package alerter отправляет операционные алерты в чат Telegram.
package alerter

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dispatch/pkg/logger"
)

const (
	defaultBuffer  = 64
	maxMessageSize = 4000
)

var AlertsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ops_alerts_dropped_total",
	Help: "Alerts dropped because the send queue was full",
})

type Alerter struct {
	bot    sender
	chatID int64
	queue  chan string
	log    handlerLogger
}

func New(bot sender, chatID int64, buffer int, log handlerLogger) *Alerter {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Alerter{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, buffer),
		log:    log,
	}
}

// NewBot клиент Telegram Bot API по токену.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// Alert никогда не блокирует: при переполненной очереди алерт теряется.
func (a *Alerter) Alert(_ context.Context, text string) {
	select {
	case a.queue <- text:
	default:
		AlertsDroppedTotal.Inc()
		a.log.Warn("alert dropped, queue is full", logger.NewField("text", text))
	}
}

// Run отправляет алерты из очереди, пока не отменят контекст.
func (a *Alerter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-a.queue:
			a.send(text)
		}
	}
}

func (a *Alerter) send(text string) {
	if len(text) > maxMessageSize {
		text = text[:maxMessageSize]
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := a.bot.Send(msg); err != nil {
		a.log.Error("send alert to telegram", logger.NewField("error", err))
	}
}

// Nop алертер для окружений без Telegram.
type Nop struct{}

func (Nop) Alert(context.Context, string) {}

func (Nop) Run(ctx context.Context) {
	<-ctx.Done()
}
