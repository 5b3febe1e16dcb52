// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package store defines the persistence interfaces the merchandising core
// consumes. The stores are owned by external collaborators; this package
// only fixes their contracts and ships reference implementations
// (memory, duck, badgerstore) used by tests and standalone deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopsignal/shopsignal/internal/models"
)

// ErrNotFound is returned when a required product, profile or cart does
// not exist. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// ProductFilter selects catalog products. Zero values mean "no constraint".
type ProductFilter struct {
	// Categories restricts results to the given categories.
	Categories []string

	// MinPrice and MaxPrice bound the price range. MaxPrice 0 = unbounded.
	MinPrice float64
	MaxPrice float64

	// ExcludeIDs removes specific products from the result.
	ExcludeIDs []int
}

// InteractionFilter selects interactions. Zero values mean "no constraint".
type InteractionFilter struct {
	// ProductID restricts to one product. 0 = any.
	ProductID int

	// UserID restricts to one user. "" = any.
	UserID string

	// Type restricts to one interaction type. "" = any.
	Type models.InteractionType

	// Since and Until bound the timestamp range (inclusive lower,
	// exclusive upper). Zero values are unbounded.
	Since time.Time
	Until time.Time
}

// CatalogStore provides access to catalog products. Save is used only to
// persist the popularity and price fields this core owns.
type CatalogStore interface {
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindOne(ctx context.Context, id int) (models.Product, error)
	Save(ctx context.Context, product models.Product) error
	Count(ctx context.Context, filter ProductFilter) (int, error)
}

// InteractionStore is the append-only behavioral event log.
type InteractionStore interface {
	Append(ctx context.Context, interaction models.Interaction) error
	Find(ctx context.Context, filter InteractionFilter) ([]models.Interaction, error)
}

// ProfileStore persists per-user personalization profiles.
type ProfileStore interface {
	FindOne(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}

// CartStore provides read-only access to cart snapshots.
type CartStore interface {
	FindOne(ctx context.Context, userID string) (*models.CartSnapshot, error)
}
