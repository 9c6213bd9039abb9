package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// MemoryRepository is an in-memory Repository for tests and local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]gateway.TransactionRecord
	nextID  uint
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]gateway.TransactionRecord)}
}

func (m *MemoryRepository) Create(_ context.Context, rec *gateway.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.TrackingCode]; exists {
		return fmt.Errorf("store: tracking code %s already exists", rec.TrackingCode)
	}
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.TrackingCode] = *rec
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, trackingCode string) (*gateway.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[trackingCode]
	if !ok {
		return nil, gateway.ErrRecordNotFound
	}
	copied := rec
	return &copied, nil
}

func (m *MemoryRepository) Update(_ context.Context, rec *gateway.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.TrackingCode]; !ok {
		return gateway.ErrRecordNotFound
	}
	rec.UpdatedAt = time.Now()
	m.records[rec.TrackingCode] = *rec
	return nil
}
