//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_submit_test
package dispatch_submit

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
)

type Service interface {
	Run(ctx context.Context, provider entities.Provider) (dispatch.Stats, error)
}
