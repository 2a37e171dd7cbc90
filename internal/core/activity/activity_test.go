package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/vaultflow/internal/core/vault"
)

type fakeStore struct {
	items    map[vault.Category][]vault.ItemMeta
	contents map[string]string
	listErr  map[vault.Category]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:    map[vault.Category][]vault.ItemMeta{},
		contents: map[string]string{},
		listErr:  map[vault.Category]error{},
	}
}

func (f *fakeStore) add(cat vault.Category, name, content string, modified time.Time) {
	path := "/vault/" + name
	f.items[cat] = append(f.items[cat], vault.ItemMeta{
		Filename: name,
		Path:     path,
		Category: cat,
		Modified: modified,
		Size:     int64(len(content)),
	})
	f.contents[path] = content
}

func (f *fakeStore) List(_ context.Context, cat vault.Category) ([]vault.ItemMeta, error) {
	if err := f.listErr[cat]; err != nil {
		return nil, err
	}
	return f.items[cat], nil
}

func (f *fakeStore) Read(_ context.Context, path string) ([]byte, error) {
	content, ok := f.contents[path]
	if !ok {
		return nil, vault.ErrNotFound
	}
	return []byte(content), nil
}

func (f *fakeStore) Move(context.Context, string, vault.Category) (vault.ItemMeta, error) {
	return vault.ItemMeta{}, errors.New("not implemented")
}

func TestCountsEmptyVault(t *testing.T) {
	svc := NewService(newFakeStore(), zerolog.Nop())

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 5)
	for cat, n := range counts {
		assert.Zero(t, n, "category %s", cat)
	}
}

func TestCounts(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.add(vault.CategoryNeedsAction, "a.md", "x", now)
	store.add(vault.CategoryNeedsAction, "b.md", "x", now)
	store.add(vault.CategoryDone, "c.md", "x", now)

	svc := NewService(store, zerolog.Nop())
	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, counts[vault.CategoryNeedsAction])
	assert.Equal(t, 1, counts[vault.CategoryDone])
	assert.Equal(t, 0, counts[vault.CategoryRejected])
}

func TestRecentSortsAndTruncates(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.add(vault.CategoryNeedsAction, "oldest.md", "x", base.Add(-2*time.Hour))
	store.add(vault.CategoryApproved, "newest.md", "x", base)
	store.add(vault.CategoryDone, "middle.md", "x", base.Add(-time.Hour))

	svc := NewService(store, zerolog.Nop())
	entries, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "newest.md", entries[0].Filename)
	assert.Equal(t, "Approved", entries[0].Label)
	assert.Equal(t, "middle.md", entries[1].Filename)
}

func TestRecentSkipsFailingCategory(t *testing.T) {
	store := newFakeStore()
	store.add(vault.CategoryNeedsAction, "a.md", "x", time.Now())
	store.listErr[vault.CategoryDone] = errors.New("boom")

	svc := NewService(store, zerolog.Nop())
	entries, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestListingTagsTypes(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.add(vault.CategoryPendingApproval, "mail.md", "An Email from Bob", now)
	store.add(vault.CategoryPendingApproval, "chat.md", "a WhatsApp thread", now.Add(-time.Minute))
	store.add(vault.CategoryPendingApproval, "other.md", "nothing of note", now.Add(-2*time.Minute))

	svc := NewService(store, zerolog.Nop())
	items, err := svc.Listing(context.Background(), vault.CategoryPendingApproval)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, TypeEmail, items[0].Type)
	assert.Equal(t, TypeWhatsApp, items[1].Type)
	assert.Equal(t, TypeUnknown, items[2].Type)
}

func TestListingUnreadableContentStaysUnknown(t *testing.T) {
	store := newFakeStore()
	store.add(vault.CategoryNeedsAction, "a.md", "email", time.Now())
	// Drop the content so Read fails while the item stays listed.
	delete(store.contents, "/vault/a.md")

	svc := NewService(store, zerolog.Nop())
	items, err := svc.Listing(context.Background(), vault.CategoryNeedsAction)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, TypeUnknown, items[0].Type)
}
