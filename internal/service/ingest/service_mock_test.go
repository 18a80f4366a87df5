package ingest

import (
	"context"
	"sync"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// StoreMock is a hand-rolled mock implementing Store.
type StoreMock struct {
	InsertFunc func(ctx context.Context, rec *domain.Intention) (int64, error)

	mu          sync.Mutex
	callsInsert []*domain.Intention
}

func (m *StoreMock) Insert(ctx context.Context, rec *domain.Intention) (int64, error) {
	m.mu.Lock()
	m.callsInsert = append(m.callsInsert, rec)
	m.mu.Unlock()
	return m.InsertFunc(ctx, rec)
}

// InsertCalls returns the records passed to Insert so far.
func (m *StoreMock) InsertCalls() []*domain.Intention {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Intention(nil), m.callsInsert...)
}
