package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

func newCategory(t *testing.T, s *Store, name string) *model.Category {
	t.Helper()
	c, err := s.Categories().Create(context.Background(), &model.Category{Name: name})
	require.NoError(t, err)
	return c
}

func newDocument(t *testing.T, s *Store, title, categoryID string, uploaded time.Time) *model.Document {
	t.Helper()
	d, err := s.Documents().Create(context.Background(), &model.Document{
		Title:        title,
		CategoryID:   categoryID,
		CategoryName: "denormalized",
		FilePath:     "/f/1.pdf",
		FileType:     "pdf",
		FileSize:     10,
		Status:       model.StatusActive,
		UploadedAt:   uploaded,
	})
	require.NoError(t, err)
	return d
}

func TestStore_PushKeysAndNoServerSideConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a := newCategory(t, s, "Finance")
	b := newCategory(t, s, "Finance")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 20)

	d := newDocument(t, s, "Invoice", a.ID, time.Now())
	require.NoError(t, s.Categories().Delete(ctx, a.ID))

	got, err := s.Documents().FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Equal(t, a.ID, got.CategoryID)
	assert.Equal(t, "denormalized", got.CategoryName)
}

func TestStore_CategoryCountsAndOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	legal := newCategory(t, s, "Legal")
	finance := newCategory(t, s, "Finance")
	newDocument(t, s, "Invoice", finance.ID, time.Now())

	items, err := s.Categories().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, finance.ID, items[0].ID)
	assert.Equal(t, 1, items[0].DocumentCount)
	assert.Equal(t, legal.ID, items[1].ID)
	assert.Equal(t, 0, items[1].DocumentCount)

	byName, err := s.Categories().FindByName(ctx, "Legal")
	require.NoError(t, err)
	assert.Equal(t, legal.ID, byName.ID)

	_, err = s.Categories().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Categories().Update(ctx, &model.Category{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_DocumentFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := newCategory(t, s, "Finance")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	newDocument(t, s, "Invoice January", c.ID, base)
	newDocument(t, s, "Invoice February", c.ID, base.AddDate(0, 1, 0))
	newDocument(t, s, "receipt", c.ID, base.AddDate(0, 2, 0))

	all, err := s.Documents().List(ctx, model.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "receipt", all[0].Title)

	search, err := s.Documents().List(ctx, model.DocumentFilter{Search: "Invoice"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	end := base.AddDate(0, 1, 0)
	ranged, err := s.Documents().List(ctx, model.DocumentFilter{StartDate: &base, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	n, err := s.Documents().Count(ctx, model.DocumentFilter{CategoryID: c.ID, Status: model.StatusArchived})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_DetachDocument(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := newCategory(t, s, "Finance")
	d := newDocument(t, s, "Invoice", c.ID, time.Now())

	_, err := s.ActivityLogs().Append(ctx, &model.ActivityLog{Action: "Uploaded document: Invoice", DocumentID: &d.ID, Timestamp: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.ActivityLogs().DetachDocument(ctx, d.ID))
	require.NoError(t, s.Documents().Delete(ctx, d.ID))

	entries, err := s.ActivityLogs().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].DocumentID)
	assert.Equal(t, "Uploaded document: Invoice", entries[0].Action)
}

func TestStore_RenameCategory(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	finance := newCategory(t, s, "Finance")
	legal := newCategory(t, s, "Legal")
	invoice := newDocument(t, s, "Invoice", finance.ID, time.Now())
	nda := newDocument(t, s, "NDA", legal.ID, time.Now())

	require.NoError(t, s.Documents().RenameCategory(ctx, finance.ID, "Accounting"))

	got, err := s.Documents().FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Accounting", got.CategoryName)

	got, err = s.Documents().FindByID(ctx, nda.ID)
	require.NoError(t, err)
	assert.Equal(t, "denormalized", got.CategoryName)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsubscribe, err := s.Subscribe(ctx, repository.CollectionCategories)
	require.NoError(t, err)
	defer unsubscribe()

	first := <-ch
	assert.Equal(t, repository.CollectionCategories, first.Collection)
	assert.Empty(t, first.Items)

	newCategory(t, s, "Finance")
	newCategory(t, s, "Legal")

	// Undelivered snapshots are replaced, so the next read is the latest full list.
	latest := <-ch
	items, ok := latest.Items.([]model.Category)
	require.True(t, ok)
	assert.Len(t, items, 2)

	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestStore_SubscribeCancelAndClose(t *testing.T) {
	s := NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, repository.CollectionDocuments)
	require.NoError(t, err)
	<-ch
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	_, _, err = s.Subscribe(context.Background(), "users")
	assert.Error(t, err)

	require.NoError(t, s.Close())
	_, _, err = s.Subscribe(context.Background(), repository.CollectionDocuments)
	assert.ErrorIs(t, err, ErrClosed)
}
