// Package storage persists uploaded dataset versions so a restart can
// replay the latest call batch and assignment set. The engine itself never
// touches storage; persistence is wired at the API boundary.
package storage

import (
	"context"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Store defines the dataset persistence interface
type Store interface {
	SaveCallBatch(ctx context.Context, batch types.CallBatch) error
	LatestCallBatch(ctx context.Context) (*types.CallBatch, error)
	SaveAssignmentSet(ctx context.Context, set types.AssignmentSet) error
	LatestAssignmentSet(ctx context.Context) (*types.AssignmentSet, error)
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCallBatch(_ context.Context, _ types.CallBatch) error { return nil }
func (s *NoopStore) LatestCallBatch(_ context.Context) (*types.CallBatch, error) {
	return nil, nil
}
func (s *NoopStore) SaveAssignmentSet(_ context.Context, _ types.AssignmentSet) error { return nil }
func (s *NoopStore) LatestAssignmentSet(_ context.Context) (*types.AssignmentSet, error) {
	return nil, nil
}
