//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_poll_test
package order_poll

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/service/tracking"
)

type Service interface {
	Poll(ctx context.Context, provider entities.Provider) (tracking.PollStats, error)
}
