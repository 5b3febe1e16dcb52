// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package badgerstore implements the profile store on BadgerDB.
// Profiles are small per-user JSON documents keyed by user id, which maps
// naturally onto a KV store with cheap point reads on the view path.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

const profileKeyPrefix = "profile:"

// Config holds BadgerDB settings for the profile store.
type Config struct {
	// Path is the Badger data directory. Empty means in-memory.
	Path string

	// SyncWrites forces fsync on every write. Profiles tolerate loss of
	// the most recent views, so this defaults to false.
	SyncWrites bool
}

// Profiles is a BadgerDB-backed store.ProfileStore.
type Profiles struct {
	db *badger.DB
}

var _ store.ProfileStore = (*Profiles)(nil)

// Open opens (creating if needed) the profile database.
func Open(cfg Config) (*Profiles, error) {
	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	return &Profiles{db: db}, nil
}

// Close releases the underlying database.
func (p *Profiles) Close() error {
	return p.db.Close()
}

// FindOne returns the profile for the user or store.ErrNotFound.
func (p *Profiles) FindOne(_ context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", userID, err)
	}

	if profile.CategoryViews == nil {
		profile.CategoryViews = make(map[string]int)
	}
	return &profile, nil
}

// Save upserts a profile document.
func (p *Profiles) Save(_ context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", profile.UserID, err)
	}

	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("write profile %s: %w", profile.UserID, err)
	}
	return nil
}

func profileKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}
