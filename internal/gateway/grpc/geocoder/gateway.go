package geocoder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"dispatch/internal/entities"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"
)

const (
	MethodValidate = "/geocoder.v1.AddressService/Validate"

	// Геокодер блокирует диспетчеризацию, поэтому на одну попытку не больше секунды.
	callTimeout = time.Second

	initialInterval = 100 * time.Millisecond
	maxInterval     = 500 * time.Millisecond
	maxElapsedTime  = 2 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
	maxRetries      = 2
)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Gateway struct {
	conn    invoker
	retrier retrier
}

func New(conn invoker) *Gateway {
	return &Gateway{
		conn: conn,
		retrier: backoff_adapter.New(retrierconfig.Config{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			MaxElapsedTime:  maxElapsedTime,
			Randomization:   randomization,
			Multiplier:      multiplier,
			MaxRetries:      maxRetries,
			ShouldRetry:     isRetryableCode,
		}),
	}
}

// Geocode проверяет адрес и возвращает координаты. Нераспознанный адрес не
// ошибка: возвращается PlaceID == entities.InvalidPlaceID.
func (g *Gateway) Geocode(ctx context.Context, address string) (*entities.GeocodedAddress, error) {
	req, err := toRequest(address)
	if err != nil {
		return nil, err
	}

	resp := &structpb.Struct{}
	err = g.executeWithMetrics(ctx, "Validate", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return g.conn.Invoke(callCtx, MethodValidate, req, resp)
	})
	if err != nil {
		return nil, fmt.Errorf("gateway geocoder, validate: %w", err)
	}

	return toDomain(resp)
}

func isRetryableCode(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	grpcCode := getGRPCCode(err)
	GatewayRequestDuration.WithLabelValues(method, grpcCode).Observe(time.Since(start).Seconds())
	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(method, grpcCode).Inc()
	}

	return err
}

func getGRPCCode(err error) string {
	if err == nil {
		return codes.OK.String()
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return codes.Unknown.String()
}
