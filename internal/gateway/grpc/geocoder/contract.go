//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=geocoder_test
package geocoder

import (
	"context"

	"google.golang.org/grpc"
)

// invoker подмножество grpc.ClientConnInterface, которое нужно шлюзу.
type invoker interface {
	Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error
}
