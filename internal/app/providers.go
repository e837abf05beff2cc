package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/grpc/geocoder"
	"dispatch/internal/gateway/http/provider"
	"dispatch/internal/gateway/http/provider/lyft"
	"dispatch/internal/gateway/http/provider/uber"
	"dispatch/internal/gateway/kafka/notifier"
	"dispatch/internal/gateway/telegram/alerter"
	"dispatch/internal/handlers/tasks/dispatch_submit"
	"dispatch/internal/handlers/tasks/order_poll"
	"dispatch/internal/pkg/config"
	"dispatch/internal/repository"
	orderRepo "dispatch/internal/repository/order"
	requestRepo "dispatch/internal/repository/request"
	retryRepo "dispatch/internal/repository/retry"
	tokenRepo "dispatch/internal/repository/token"
	"dispatch/internal/service/batchwrite"
	"dispatch/internal/service/dispatch"
	"dispatch/internal/service/retry"
	"dispatch/internal/service/token"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/background"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"
	"dispatch/pkg/token_bucket"
	"dispatch/pkg/tx"
)

const (
	issuerTimeout = 10 * time.Second
	alertBuffer   = 64

	// конфликт сериализуемой транзакции списка волонтеров повторяем быстро и немного раз
	rosterRetryInitial = 20 * time.Millisecond
	rosterRetryMax     = 500 * time.Millisecond
	rosterRetryElapsed = 3 * time.Second
	rosterRetryCount   = 5
)

type Application struct {
	Dispatch          *dispatch.Service
	Tracking          *tracking.Service
	Alerter           OpsAlerter
	BackgroundWorkers *background.Worker
}

// KafkaWorkerApp без фоновых задач: только обработка событий провайдеров.
type KafkaWorkerApp struct {
	Tracking *tracking.Service
	Alerter  OpsAlerter
}

var coreSet = wire.NewSet(
	provideTxManager,
	provideQuerier,

	provideRequestRepository,
	provideOrderRepository,
	provideRetryRepository,
	provideTokenRepository,
	provideTokenCache,
	provideWriter,

	provideAlerter,
	provideIssuers,
	provideTokenService,
	provideProviderAdapters,
	provideDispatchAdapters,
	provideTrackingAdapters,
	provideDispatchSettings,
	provideGeocoder,
	provideDispatchService,

	provideRetryPolicy,
	provideNotifier,
	provideRosterRetrier,
	provideTrackingService,

	wire.Bind(new(batchwrite.RequestRepository), new(*requestRepo.Repository)),
	wire.Bind(new(batchwrite.OrderRepository), new(*orderRepo.Repository)),
	wire.Bind(new(batchwrite.RetryRepository), new(*retryRepo.Repository)),
	wire.Bind(new(batchwrite.TxManager), new(*tx.Manager)),

	wire.Bind(new(token.Repository), new(*tokenRepo.Repository)),
	wire.Bind(new(token.Cache), new(*tokenRepo.Cache)),

	wire.Bind(new(dispatch.RequestRepository), new(*requestRepo.Repository)),
	wire.Bind(new(dispatch.Writer), new(*batchwrite.Writer)),
	wire.Bind(new(dispatch.Geocoder), new(*geocoder.Gateway)),

	wire.Bind(new(tracking.RequestRepository), new(*requestRepo.Repository)),
	wire.Bind(new(tracking.OrderRepository), new(*orderRepo.Repository)),
	wire.Bind(new(tracking.Writer), new(*batchwrite.Writer)),
	wire.Bind(new(tracking.RetryPolicy), new(*retry.Policy)),
	wire.Bind(new(tracking.Dispatcher), new(*dispatch.Service)),
	wire.Bind(new(tracking.Notifier), new(*notifier.Notifier)),
	wire.Bind(new(tracking.TxManager), new(*tx.Manager)),
	wire.Bind(new(tracking.Retrier), new(*backoff_adapter.Retrier)),
)

// OpsAlerter канал алертов для операторов, Run крутится до остановки процесса.
type OpsAlerter interface {
	Alert(ctx context.Context, text string)
	Run(ctx context.Context)
}

// ProviderAdapter адаптер провайдера нужен и диспетчеру, и сверке.
type ProviderAdapter interface {
	dispatch.Adapter
	tracking.Adapter
}

type ProviderAdapters []ProviderAdapter

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideRequestRepository(q *querier.Querier) *requestRepo.Repository {
	return requestRepo.New(q)
}

func provideOrderRepository(q *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(q)
}

func provideRetryRepository(q *querier.Querier) *retryRepo.Repository {
	return retryRepo.New(q)
}

func provideTokenRepository(q *querier.Querier) *tokenRepo.Repository {
	return tokenRepo.New(q)
}

func provideTokenCache(client *goredis.Client) *tokenRepo.Cache {
	return tokenRepo.NewCache(client)
}

func provideWriter(
	requests batchwrite.RequestRepository,
	orders batchwrite.OrderRepository,
	retries batchwrite.RetryRepository,
	txManager batchwrite.TxManager,
) *batchwrite.Writer {
	return batchwrite.New(requests, orders, retries, txManager)
}

func provideAlerter(cfg *config.Config, log logger.Logger) (OpsAlerter, error) {
	if cfg.Telegram.BotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN is not set, ops alerts are disabled")
		return alerter.Nop{}, nil
	}

	bot, err := alerter.NewBot(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return alerter.New(bot, cfg.Telegram.ChatID, alertBuffer, log.With(logger.NewField("component", "alerter"))), nil
}

func provideIssuers(cfg *config.Config) (map[entities.Provider]token.Issuer, error) {
	httpClient := &http.Client{Timeout: issuerTimeout}

	issuers := make(map[entities.Provider]token.Issuer, len(cfg.Providers))
	for _, p := range cfg.Providers {
		switch p.Name {
		case entities.ProviderUber:
			issuers[p.Name] = uber.NewIssuer(httpClient, p.TokenURL, p.ClientID, p.ClientSecret, p.Scope)
		case entities.ProviderLyft:
			issuers[p.Name] = lyft.NewIssuer(httpClient, p.TokenURL, p.ClientID, p.ClientSecret, p.Scope)
		default:
			return nil, fmt.Errorf("no token issuer for provider %s", p.Name)
		}
	}
	return issuers, nil
}

func provideTokenService(
	repo token.Repository,
	cache token.Cache,
	issuers map[entities.Provider]token.Issuer,
	log logger.Logger,
) *token.Service {
	return token.New(repo, cache, issuers, log.With(logger.NewField("component", "token")))
}

func provideProviderAdapters(cfg *config.Config, tokens *token.Service, ops OpsAlerter) (ProviderAdapters, error) {
	adapters := make(ProviderAdapters, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		var limiter interface {
			Wait(ctx context.Context) error
		}
		if p.RateLimit.Capacity > 0 {
			limiter = token_bucket.NewTokenBucket(p.RateLimit.Capacity, p.RateLimit.Refill)
		}

		clientCfg := provider.Config{
			Provider: p.Name,
			BaseURL:  p.BaseURL,
			Timeout:  p.Timeout,
		}

		switch p.Name {
		case entities.ProviderUber:
			clientCfg.Critical = uber.CriticalPaths
			adapters = append(adapters, uber.New(provider.NewClient(clientCfg, tokens, ops, limiter), p.WebhookSecret))
		case entities.ProviderLyft:
			clientCfg.Critical = lyft.CriticalPaths
			adapters = append(adapters, lyft.New(provider.NewClient(clientCfg, tokens, ops, limiter), p.WebhookSecret))
		default:
			return nil, fmt.Errorf("no adapter for provider %s", p.Name)
		}
	}
	return adapters, nil
}

func provideDispatchAdapters(adapters ProviderAdapters) []dispatch.Adapter {
	out := make([]dispatch.Adapter, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, a)
	}
	return out
}

func provideTrackingAdapters(adapters ProviderAdapters) []tracking.Adapter {
	out := make([]tracking.Adapter, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, a)
	}
	return out
}

func provideDispatchSettings(cfg *config.Config) map[entities.Provider]dispatch.Settings {
	settings := make(map[entities.Provider]dispatch.Settings, len(cfg.Providers))
	for _, p := range cfg.Providers {
		settings[p.Name] = dispatch.Settings{
			BatchSize: p.BatchSize,
			Lookahead: p.Lookahead,
		}
	}
	return settings
}

func provideGeocoder(conn *grpc.ClientConn) *geocoder.Gateway {
	return geocoder.New(conn)
}

func provideDispatchService(
	requests dispatch.RequestRepository,
	writer dispatch.Writer,
	geo dispatch.Geocoder,
	adapters []dispatch.Adapter,
	settings map[entities.Provider]dispatch.Settings,
	log logger.Logger,
) *dispatch.Service {
	return dispatch.New(requests, writer, geo, adapters, settings, log.With(logger.NewField("component", "dispatch")))
}

func provideRetryPolicy(cfg *config.Config) *retry.Policy {
	return retry.New(retry.Config{
		Enabled:     cfg.Retry.Enabled,
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       cfg.Retry.Delay,
	})
}

func provideNotifier(producer sarama.SyncProducer, cfg *config.Config, log logger.Logger) *notifier.Notifier {
	return notifier.New(producer, cfg.Kafka.NotificationsTopic, log.With(logger.NewField("component", "notifier")))
}

func provideRosterRetrier() *backoff_adapter.Retrier {
	return backoff_adapter.New(retrierconfig.Config{
		InitialInterval: rosterRetryInitial,
		MaxInterval:     rosterRetryMax,
		MaxElapsedTime:  rosterRetryElapsed,
		Randomization:   0.5,
		Multiplier:      2,
		MaxRetries:      rosterRetryCount,
		ShouldRetry:     repository.IsRetryableTx,
	})
}

func provideTrackingService(
	requests tracking.RequestRepository,
	orders tracking.OrderRepository,
	writer tracking.Writer,
	adapters []tracking.Adapter,
	policy tracking.RetryPolicy,
	dispatcher tracking.Dispatcher,
	notify tracking.Notifier,
	txManager tracking.TxManager,
	retrier tracking.Retrier,
	log logger.Logger,
) *tracking.Service {
	return tracking.New(
		requests,
		orders,
		writer,
		adapters,
		policy,
		dispatcher,
		notify,
		txManager,
		retrier,
		log.With(logger.NewField("component", "tracking")),
	)
}

func provideTaskList(cfg *config.Config, dispatcher dispatch_submit.Service, poller order_poll.Service) []background.Task {
	tasks := make([]background.Task, 0, 2*len(cfg.Providers))
	for _, p := range cfg.Providers {
		tasks = append(tasks,
			dispatch_submit.New(dispatcher, p.Name, cfg.Tasks.DispatchInterval),
			order_poll.New(poller, p.Name, cfg.Tasks.PollInterval),
		)
	}
	return tasks
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) *background.Worker {
	return background.Start(ctx, log.With(logger.NewField("component", "background")), tasks)
}
