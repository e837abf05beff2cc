//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"dispatch/internal/handlers/tasks/dispatch_submit"
	"dispatch/internal/handlers/tasks/order_poll"
	"dispatch/internal/pkg/config"
	"dispatch/internal/service/dispatch"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	redisClient *goredis.Client,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		coreSet,

		provideTaskList,
		provideBackgroundWorkers,

		wire.Bind(new(dispatch_submit.Service), new(*dispatch.Service)),
		wire.Bind(new(order_poll.Service), new(*tracking.Service)),

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-provider-events)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	redisClient *goredis.Client,
	producer sarama.SyncProducer,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		coreSet,
		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
