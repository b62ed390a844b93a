package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/matching"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	UnknownStore     = "Unknown store"
	storeType        = "franchise"
	storeHours       = "9h-19h"
	suggestionWindow = 50
)

// StoreResolver finds or creates the store behind a receipt. Identity is the
// dedup key (normalized name + postal code), never a fuzzy match.
type StoreResolver struct {
	stores            repositories.StoreRepo
	defaultPostalCode string
	defaultCountry    string
}

func NewStoreResolver(stores repositories.StoreRepo, defaultPostalCode, defaultCountry string) *StoreResolver {
	return &StoreResolver{
		stores:            stores,
		defaultPostalCode: defaultPostalCode,
		defaultCountry:    defaultCountry,
	}
}

// Resolve returns the store id for info, creating the store if needed.
// Concurrent calls for the same key converge on one row.
func (r *StoreResolver) Resolve(ctx context.Context, info VendorInfo) (int64, error) {
	name := lo.Ternary(info.Name == "", UnknownStore, info.Name)
	postalCode := lo.Ternary(info.PostalCode == "", r.defaultPostalCode, info.PostalCode)
	key := matching.StoreKey(name, postalCode)

	store, err := r.stores.GetByKey(ctx, key)
	if err == nil {
		return store.ID, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to lookup store: %w", err)
	}

	store = &models.Store{
		Name:       name,
		DedupKey:   key,
		Type:       storeType,
		Address:    info.Address,
		PostalCode: postalCode,
		City:       info.City,
		Country:    r.defaultCountry,
		Phone:      info.Phone,
		Email:      info.Email,
		Hours:      storeHours,
		Status:     models.StoreActive,
	}
	if err := r.stores.CreateIfAbsent(ctx, store); err != nil {
		return 0, fmt.Errorf("failed to create store: %w", err)
	}
	if store.ID != 0 {
		log.Info().Int64("store_id", store.ID).Str("name", name).Msg("🏪 Store created")
		return store.ID, nil
	}

	// Lost the race to a concurrent insert
	store, err = r.stores.GetByKey(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to reload store: %w", err)
	}
	return store.ID, nil
}

// Suggest lists existing stores that look like name, closest first. Meant
// for review screens; Resolve never uses it.
func (r *StoreResolver) Suggest(ctx context.Context, name string, limit int) ([]models.Store, error) {
	words := strings.Fields(matching.Normalize(name))
	if len(words) == 0 {
		return nil, nil
	}
	longest := lo.MaxBy(words, func(a, b string) bool { return len(a) > len(b) })

	candidates, err := r.stores.SearchByName(ctx, longest, suggestionWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to search stores: %w", err)
	}

	ranked := matching.Rank(name, lo.Map(candidates, func(s models.Store, _ int) string { return s.Name }))
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return lo.Map(ranked, func(m matching.Match, _ int) models.Store { return candidates[m.Index] }), nil
}
