//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=alerter_test
package alerter

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/pkg/logger"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
