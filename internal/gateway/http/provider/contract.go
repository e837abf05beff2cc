//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=provider_test
package provider

import (
	"context"

	"dispatch/internal/entities"
)

type tokenSource interface {
	GetToken(ctx context.Context, provider entities.Provider) (string, error)
	Refresh(ctx context.Context, provider entities.Provider) (string, error)
	Invalidate(ctx context.Context, provider entities.Provider)
}

// alerter не должен блокировать вызывающего.
type alerter interface {
	Alert(ctx context.Context, text string)
}

type limiter interface {
	Wait(ctx context.Context) error
}
