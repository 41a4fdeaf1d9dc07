// Package enrich caches scraped company fundamentals in an embedded Badger
// store so repeated report runs do not hammer the upstream site.
package enrich

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/kyac99/brvm-market-analysis/internal/sika"
)

// FinancialRecord is the cached fundamentals for one security.
type FinancialRecord struct {
	Symbol           string `badgerhold:"key"`
	PER              map[int]sika.YearValue
	DividendPerShare map[int]sika.YearValue
	FetchedAt        time.Time
}

// Store persists financial records in a Badger database.
type Store struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// OpenStore opens (or creates) the cache database at the given path.
func OpenStore(path string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // quiet the default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if logger != nil {
		logger.Debug().Str("path", path).Msg("Fundamentals cache opened")
	}

	return &Store{store: store, logger: logger}, nil
}

// Get returns the cached record for a symbol, or nil when absent.
func (s *Store) Get(symbol string) (*FinancialRecord, error) {
	var record FinancialRecord
	err := s.store.Get(symbol, &record)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached fundamentals for %s: %w", symbol, err)
	}
	return &record, nil
}

// Put inserts or replaces the cached record for a symbol.
func (s *Store) Put(record *FinancialRecord) error {
	if err := s.store.Upsert(record.Symbol, record); err != nil {
		return fmt.Errorf("failed to cache fundamentals for %s: %w", record.Symbol, err)
	}
	return nil
}

// All returns every cached record.
func (s *Store) All() ([]FinancialRecord, error) {
	var records []FinancialRecord
	if err := s.store.Find(&records, badgerhold.Where("Symbol").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list cached fundamentals: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
