package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Store keeps the newest-first result list under a single storage key.
type Store struct {
	kv     ports.KeyValueStore
	key    string
	logger ports.Logger
	mu     sync.Mutex
}

// NewStore creates a history store over kv.
func NewStore(kv ports.KeyValueStore, key string, logger ports.Logger) *Store {
	if key == "" {
		key = domain.DefaultStorageKey
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Load implements ports.HistoryRepository. Absent, unreadable or malformed
// data yields an empty list.
func (s *Store) Load(ctx context.Context) []domain.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save implements ports.HistoryRepository.
func (s *Store) Save(ctx context.Context, records []domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, records)
}

// Prepend implements ports.HistoryRepository. Load, insert and save run
// under one lock.
func (s *Store) Prepend(ctx context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load(ctx)
	records = append([]domain.ResultRecord{record}, records...)
	return s.save(ctx, records)
}

// Clear implements ports.HistoryRepository.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, s.key)
}

func (s *Store) load(ctx context.Context) []domain.ResultRecord {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("history unreadable, starting empty", map[string]interface{}{
				"key":   s.key,
				"error": err.Error(),
			})
		}
		return []domain.ResultRecord{}
	}
	var records []domain.ResultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("history malformed, starting empty", map[string]interface{}{
			"key":   s.key,
			"error": err.Error(),
		})
		return []domain.ResultRecord{}
	}
	if records == nil {
		records = []domain.ResultRecord{}
	}
	return records
}

func (s *Store) save(ctx context.Context, records []domain.ResultRecord) error {
	if records == nil {
		records = []domain.ResultRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, data)
}

var _ ports.HistoryRepository = (*Store)(nil)
