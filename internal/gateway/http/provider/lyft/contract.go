//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=lyft_test
package lyft

import "context"

type caller interface {
	Call(ctx context.Context, method, path string, body any) ([]byte, int, error)
}
