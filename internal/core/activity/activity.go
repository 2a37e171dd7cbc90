// Package activity composes item store queries across categories into
// counts, recent-activity feeds, and type-tagged listings for display.
package activity

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/core/vault"
)

// DefaultRecentLimit caps the recent-activity feed.
const DefaultRecentLimit = 20

// Entry is one item in the recent-activity feed, annotated with its
// category's display label.
type Entry struct {
	vault.ItemMeta
	Label string `json:"directory"`
}

// TypedItem is a listing row carrying the sniffed display type.
type TypedItem struct {
	vault.ItemMeta
	Type ItemType `json:"type"`
}

// Service answers read-only queries over the vault. It holds no state of
// its own and never mutates the filesystem.
type Service struct {
	store  vault.Store
	logger zerolog.Logger
}

// NewService creates an activity service over the given store.
func NewService(store vault.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "activity").Logger(),
	}
}

// Counts returns the number of items in each primary category. Absent
// directories count as zero.
func (s *Service) Counts(ctx context.Context) (map[vault.Category]int, error) {
	counts := make(map[vault.Category]int, len(vault.Primary()))
	for _, cat := range vault.Primary() {
		items, err := s.store.List(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", cat, err)
		}
		counts[cat] = len(items)
	}
	return counts, nil
}

// Recent unions items across all primary categories, newest modification
// first, truncated to limit. A failing category is skipped rather than
// aborting the feed.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var entries []Entry
	for _, cat := range vault.Primary() {
		items, err := s.store.List(ctx, cat)
		if err != nil {
			s.logger.Warn().Err(err).Str("category", string(cat)).Msg("skipping category in activity feed")
			continue
		}
		for _, item := range items {
			entries = append(entries, Entry{ItemMeta: item, Label: cat.Label()})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Listing returns the items of one category, newest first, each tagged with
// its sniffed display type. Items whose content cannot be read keep
// TypeUnknown instead of dropping out of the listing.
func (s *Service) Listing(ctx context.Context, category vault.Category) ([]TypedItem, error) {
	items, err := s.store.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}

	typed := make([]TypedItem, 0, len(items))
	for _, item := range items {
		t := TypeUnknown
		if content, err := s.store.Read(ctx, item.Path); err == nil {
			t = InferType(content)
		} else {
			s.logger.Debug().Err(err).Str("file", item.Filename).Msg("content unreadable, type unknown")
		}
		typed = append(typed, TypedItem{ItemMeta: item, Type: t})
	}

	sort.SliceStable(typed, func(i, j int) bool {
		return typed[i].Modified.After(typed[j].Modified)
	})
	return typed, nil
}
