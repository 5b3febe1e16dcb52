// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package memory provides in-memory reference implementations of the store
// interfaces. Used by tests and by standalone deployments that do not need
// durable storage.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Store holds all in-memory state and exposes one view per store
// interface. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	products     map[int]models.Product
	interactions []models.Interaction
	profiles     map[string]*models.Profile
	carts        map[string]*models.CartSnapshot
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		products: make(map[int]models.Product),
		profiles: make(map[string]*models.Profile),
		carts:    make(map[string]*models.CartSnapshot),
	}
}

// Catalog returns the catalog view of the store.
func (s *Store) Catalog() store.CatalogStore { return catalogView{s} }

// Interactions returns the interaction log view of the store.
func (s *Store) Interactions() store.InteractionStore { return interactionView{s} }

// Profiles returns the profile view of the store.
func (s *Store) Profiles() store.ProfileStore { return profileView{s} }

// Carts returns the cart view of the store.
func (s *Store) Carts() store.CartStore { return cartView{s} }

// PutCart seeds a cart snapshot. The cart is owned by an external
// collaborator in production; this is a test/standalone helper.
func (s *Store) PutCart(cart *models.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.UserID] = cart
}

type catalogView struct{ s *Store }

var _ store.CatalogStore = catalogView{}

// Find returns products matching the filter, ordered by ascending id for
// deterministic iteration.
func (v catalogView) Find(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var results []models.Product
	for _, p := range v.s.products {
		if matchesProduct(p, filter) {
			results = append(results, p)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// FindOne returns the product with the given id or store.ErrNotFound.
func (v catalogView) FindOne(_ context.Context, id int) (models.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	p, ok := v.s.products[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

// Save upserts a product record.
func (v catalogView) Save(_ context.Context, product models.Product) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.products[product.ID] = product
	return nil
}

// Count returns the number of products matching the filter.
func (v catalogView) Count(ctx context.Context, filter store.ProductFilter) (int, error) {
	products, err := v.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

type interactionView struct{ s *Store }

var _ store.InteractionStore = interactionView{}

// Append records an interaction. The log is append-only.
func (v interactionView) Append(_ context.Context, interaction models.Interaction) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.interactions = append(v.s.interactions, interaction)
	return nil
}

// Find returns interactions matching the filter in append order.
func (v interactionView) Find(_ context.Context, filter store.InteractionFilter) ([]models.Interaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var results []models.Interaction
	for _, in := range v.s.interactions {
		if matchesInteraction(in, filter) {
			results = append(results, in)
		}
	}
	return results, nil
}

type profileView struct{ s *Store }

var _ store.ProfileStore = profileView{}

// FindOne returns a copy of the user's profile or store.ErrNotFound.
func (v profileView) FindOne(_ context.Context, userID string) (*models.Profile, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	p, ok := v.s.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	clone := *p
	clone.ViewedProducts = append([]int(nil), p.ViewedProducts...)
	clone.CategoryViews = make(map[string]int, len(p.CategoryViews))
	for k, c := range p.CategoryViews {
		clone.CategoryViews[k] = c
	}
	return &clone, nil
}

// Save upserts a profile.
func (v profileView) Save(_ context.Context, profile *models.Profile) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	v.s.profiles[profile.UserID] = profile
	return nil
}

type cartView struct{ s *Store }

var _ store.CartStore = cartView{}

// FindOne returns the cart snapshot for the user or store.ErrNotFound.
func (v cartView) FindOne(_ context.Context, userID string) (*models.CartSnapshot, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	c, ok := v.s.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func matchesProduct(p models.Product, filter store.ProductFilter) bool {
	if len(filter.Categories) > 0 {
		found := false
		for _, c := range filter.Categories {
			if p.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.MinPrice > 0 && p.Price < filter.MinPrice {
		return false
	}
	if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
		return false
	}
	for _, id := range filter.ExcludeIDs {
		if p.ID == id {
			return false
		}
	}
	return true
}

func matchesInteraction(in models.Interaction, filter store.InteractionFilter) bool {
	if filter.ProductID != 0 && in.ProductID != filter.ProductID {
		return false
	}
	if filter.UserID != "" && in.UserID != filter.UserID {
		return false
	}
	if filter.Type != "" && in.Type != filter.Type {
		return false
	}
	if !filter.Since.IsZero() && in.Timestamp.Before(filter.Since) {
		return false
	}
	if !filter.Until.IsZero() && !in.Timestamp.Before(filter.Until) {
		return false
	}
	return true
}
