package network

import (
	"context"

	"github.com/weavedrop/weavedrop-go/tx"
)

// Service is the interface the rest of the library uses to reach the
// storage network. Client implements it against a real gateway; Mock is
// the test double.
type Service interface {
	// Submit posts a signed record and returns the id the network
	// assigned, which always equals the record's own id.
	//
	// A non-success HTTP status surfaces as a *SubmissionError and is
	// never retried here; retry policy belongs to the caller.
	Submit(ctx context.Context, rec *tx.Record) (string, error)

	// Fetch returns the raw stored bytes of a record by id. Any
	// non-success response fails with ErrContentNotFound.
	Fetch(ctx context.Context, id string) ([]byte, error)

	// Status reports the gateway node's identity and chain height.
	Status(ctx context.Context) (*NodeStatus, error)
}

// NodeStatus describes the gateway node.
type NodeStatus struct {
	Network string `json:"network"`
	Version string `json:"version"`
	Height  uint64 `json:"height"`
}
