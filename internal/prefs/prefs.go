// Package prefs persists per-client game settings: the preferred content
// category and the saved filter map for each category. Clients stay
// stateless; the server reproduces the same defaulting behavior on every
// round.
package prefs

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
)

// Store wraps a Badger database holding client preferences.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens the preferences database at the given path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("preferences database opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// NewInMemory opens an ephemeral store. For tests.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing preferences database")
	}
	return s.db.Close()
}

func categoryKey(clientID string) []byte {
	return []byte("prefs:category:" + clientID)
}

func filtersKey(clientID string, category content.Category) []byte {
	return []byte("prefs:filters:" + clientID + ":" + string(category))
}

// Category returns the client's preferred category. Absent or invalid
// stored values fall back to the first category rather than erroring, so a
// fresh or corrupted record still yields a playable default.
func (s *Store) Category(clientID string) content.Category {
	var stored string
	err := s.get(categoryKey(clientID), &stored)
	if err != nil {
		return content.CategoryAnime
	}
	return content.ParseCategory(stored)
}

// SetCategory stores the client's preferred category.
func (s *Store) SetCategory(clientID string, category content.Category) error {
	if !category.Valid() {
		return apperr.UnknownCategory(fmt.Sprintf("cannot persist category %q", category))
	}
	return s.set(categoryKey(clientID), string(category))
}

// Filters returns the client's saved filter map for a category, or an empty
// set. The map is opaque: schema tolerance lives in the normalizers, which
// silently drop keys they do not recognize.
func (s *Store) Filters(clientID string, category content.Category) content.FilterSet {
	var filters content.FilterSet
	if err := s.get(filtersKey(clientID, category), &filters); err != nil {
		return content.FilterSet{}
	}
	if filters == nil {
		filters = content.FilterSet{}
	}
	return filters
}

// SetFilters stores the client's filter map for a category.
func (s *Store) SetFilters(clientID string, category content.Category, filters content.FilterSet) error {
	if !category.Valid() {
		return apperr.UnknownCategory(fmt.Sprintf("cannot persist filters for category %q", category))
	}
	return s.set(filtersKey(clientID, category), filters)
}

// ClearFilters removes the client's saved filter map for a category.
func (s *Store) ClearFilters(clientID string, category content.Category) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(filtersKey(clientID, category))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
