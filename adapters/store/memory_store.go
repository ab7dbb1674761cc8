package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
)

// MemoryStore is an in-memory implementation of the TrustRecordStore interface
type MemoryStore struct {
	records map[string]core.TrustRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store seeded with records
func NewMemoryStore(records ...core.TrustRecord) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]core.TrustRecord, len(records)),
	}
	for _, r := range records {
		s.Put(r)
	}
	return s
}

// Put inserts or replaces the record for its wallet address
func (s *MemoryStore) Put(record core.TrustRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[walletKey(record.WalletAddress)] = record
}

// GetTrustRecord returns the record stored for walletAddress
func (s *MemoryStore) GetTrustRecord(ctx context.Context, walletAddress string) (core.TrustRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[walletKey(walletAddress)]
	if !ok {
		return core.TrustRecord{}, core.ErrRecordNotFound
	}
	return record, nil
}

// MemoryNonceStore is an in-memory implementation of the NonceStore interface
type MemoryNonceStore struct {
	used map[string]time.Time
	mu   sync.Mutex
	now  func() time.Time
}

// NewMemoryNonceStore creates a new in-memory nonce store
func NewMemoryNonceStore() ports.NonceStore {
	return &MemoryNonceStore{
		used: make(map[string]time.Time),
		now:  time.Now,
	}
}

// ConsumeNonce marks a nonce as used until ttl elapses
func (s *MemoryNonceStore) ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if expiry, exists := s.used[nonce]; exists && now.Before(expiry) {
		return false, nil
	}

	s.used[nonce] = now.Add(ttl)
	return true, nil
}

// sweep drops expired nonces; callers must hold mu
func (s *MemoryNonceStore) sweep(now time.Time) {
	for nonce, expiry := range s.used {
		if !now.Before(expiry) {
			delete(s.used, nonce)
		}
	}
}

// walletKey normalizes wallet identifiers, which are case-insensitive hex
func walletKey(walletAddress string) string {
	return strings.ToLower(strings.TrimSpace(walletAddress))
}
