package network

import (
	"context"

	"github.com/weavedrop/weavedrop-go/tx"
)

// Mock is a test double for Service. All function fields must be set
// before the corresponding method is called.
type Mock struct {
	SubmitFn func(ctx context.Context, rec *tx.Record) (string, error)
	FetchFn  func(ctx context.Context, id string) ([]byte, error)
	StatusFn func(ctx context.Context) (*NodeStatus, error)
}

// Compile-time check that Mock satisfies Service.
var _ Service = (*Mock)(nil)

func (m *Mock) Submit(ctx context.Context, rec *tx.Record) (string, error) {
	return m.SubmitFn(ctx, rec)
}

func (m *Mock) Fetch(ctx context.Context, id string) ([]byte, error) {
	return m.FetchFn(ctx, id)
}

func (m *Mock) Status(ctx context.Context) (*NodeStatus, error) {
	return m.StatusFn(ctx)
}
