package sync

import (
	"context"
	"sync"
	"time"

	"github.com/hairlooks/salonbridge/internal/domain"
)

// StoreMock is a hand-rolled mock implementing Store.
type StoreMock struct {
	UnprocessedFunc   func(ctx context.Context, day *time.Time) ([]domain.Intention, error)
	MarkProcessedFunc func(ctx context.Context, ids []int64) error

	mu          sync.Mutex
	callsFetch  []*time.Time
	callsMarked [][]int64
}

func (m *StoreMock) Unprocessed(ctx context.Context, day *time.Time) ([]domain.Intention, error) {
	m.mu.Lock()
	m.callsFetch = append(m.callsFetch, day)
	m.mu.Unlock()
	return m.UnprocessedFunc(ctx, day)
}

func (m *StoreMock) MarkProcessed(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	m.callsMarked = append(m.callsMarked, ids)
	m.mu.Unlock()
	return m.MarkProcessedFunc(ctx, ids)
}

// UnprocessedCalls returns the day arguments passed so far.
func (m *StoreMock) UnprocessedCalls() []*time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*time.Time(nil), m.callsFetch...)
}

// MarkProcessedCalls returns the id sets passed so far.
func (m *StoreMock) MarkProcessedCalls() [][]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]int64(nil), m.callsMarked...)
}

// ForwarderMock is a hand-rolled mock implementing Forwarder.
type ForwarderMock struct {
	ForwardFunc func(ctx context.Context, contact domain.Contact) bool

	mu           sync.Mutex
	callsForward []domain.Contact
}

func (m *ForwarderMock) Forward(ctx context.Context, contact domain.Contact) bool {
	m.mu.Lock()
	m.callsForward = append(m.callsForward, contact)
	m.mu.Unlock()
	return m.ForwardFunc(ctx, contact)
}

// ForwardCalls returns the contacts passed to Forward so far.
func (m *ForwarderMock) ForwardCalls() []domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Contact(nil), m.callsForward...)
}
