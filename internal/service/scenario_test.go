package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docarchive/internal/config"
	"docarchive/internal/database"
	"docarchive/internal/domain"
	"docarchive/internal/logging"
	"docarchive/internal/model"
	"docarchive/internal/repository"
	"docarchive/internal/repository/gormstore"
	"docarchive/internal/repository/realtime"
)

func storeFactories() map[string]func(t *testing.T) repository.Store {
	return map[string]func(t *testing.T) repository.Store{
		"gorm": func(t *testing.T) repository.Store {
			db, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:", Environment: "test"})
			require.NoError(t, err)
			require.NoError(t, gormstore.Migrate(db))
			s := gormstore.NewStore(db)
			t.Cleanup(func() { s.Close() })
			return s
		},
		"realtime": func(t *testing.T) repository.Store {
			s := realtime.NewStore()
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

// ticker returns a clock that advances one second per call.
func ticker() func() time.Time {
	t := fixedNow
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestArchiveScenario(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			now := ticker()

			categories := NewCategoryService(store, logging.Discard()).(*categoryService)
			categories.now, categories.activity.now = now, now
			documents := NewDocumentService(store, nil, logging.Discard()).(*documentService)
			documents.now, documents.activity.now = now, now
			activity := NewActivityLogService(store)
			dashboard := NewDashboardService(store)

			fin, err := categories.Create(ctx, CategoryInput{Name: "Finance"})
			require.NoError(t, err)
			_, err = categories.Create(ctx, CategoryInput{Name: "Finance"})
			assert.ErrorIs(t, err, domain.ErrConflict)

			_, err = documents.Create(ctx, CreateDocumentInput{
				Title: "Orphan", CategoryID: "999", FilePath: "/f/o.pdf", FileType: "pdf", FileSize: 1,
			})
			assert.ErrorIs(t, err, domain.ErrValidation)

			doc, err := documents.Create(ctx, CreateDocumentInput{
				Title:      "Q1 Report",
				CategoryID: fin.ID,
				FilePath:   "/f/q1.pdf",
				FileType:   "pdf",
				FileSize:   2048,
			})
			require.NoError(t, err)
			assert.Equal(t, model.StatusActive, doc.Status)

			got, err := categories.Get(ctx, fin.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, got.DocumentCount)

			err = categories.Delete(ctx, fin.ID)
			assert.ErrorIs(t, err, domain.ErrConstraint)

			archived := model.StatusArchived
			_, err = documents.Update(ctx, doc.ID, UpdateDocumentInput{Status: &archived}, nil)
			require.NoError(t, err)

			summary, err := dashboard.Summary(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.TotalDocuments)
			assert.Equal(t, 1, summary.ArchivedDocuments)
			assert.Equal(t, 1, summary.TotalCategories)
			require.Len(t, summary.RecentDocuments, 1)
			assert.Equal(t, "Q1 Report", summary.RecentDocuments[0].Title)

			require.NoError(t, documents.Delete(ctx, doc.ID))
			_, err = documents.Get(ctx, doc.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			entries, err := activity.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, entries, 4)
			assert.Equal(t, "Deleted document ID "+doc.ID, entries[0].Action)
			assert.Equal(t, "Updated document ID "+doc.ID+": Q1 Report", entries[1].Action)
			assert.Equal(t, "Uploaded document: Q1 Report", entries[2].Action)
			assert.Equal(t, "Created category: Finance", entries[3].Action)
			for _, e := range entries {
				assert.Nil(t, e.DocumentID, e.Action)
				assert.Nil(t, e.Document, e.Action)
			}

			require.NoError(t, categories.Delete(ctx, fin.ID))
			list, err := categories.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			require.NoError(t, NewSystemService(store, logging.Discard()).Reset(ctx))
			entries, err = activity.List(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestArchiveScenario_ListFilters(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			now := ticker()

			categories := NewCategoryService(store, logging.Discard()).(*categoryService)
			categories.now, categories.activity.now = now, now
			documents := NewDocumentService(store, nil, logging.Discard()).(*documentService)
			documents.now, documents.activity.now = now, now

			fin, err := categories.Create(ctx, CategoryInput{Name: "Finance"})
			require.NoError(t, err)
			legal, err := categories.Create(ctx, CategoryInput{Name: "Legal"})
			require.NoError(t, err)

			for _, in := range []CreateDocumentInput{
				{Title: "Budget 2025", CategoryID: fin.ID},
				{Title: "NDA", CategoryID: legal.ID, Status: model.StatusArchived},
				{Title: "Budget 2026", CategoryID: fin.ID},
			} {
				in.FilePath, in.FileType, in.FileSize = "/f/x.pdf", "pdf", 10
				_, err := documents.Create(ctx, in)
				require.NoError(t, err)
			}

			all, err := documents.List(ctx, model.DocumentFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "Budget 2026", all[0].Title)
			assert.Equal(t, "Budget 2025", all[2].Title)

			budget, err := documents.List(ctx, model.DocumentFilter{Search: "Budget"})
			require.NoError(t, err)
			assert.Len(t, budget, 2)

			inFinance, err := documents.List(ctx, model.DocumentFilter{CategoryID: fin.ID})
			require.NoError(t, err)
			assert.Len(t, inFinance, 2)

			archived, err := documents.List(ctx, model.DocumentFilter{Status: model.StatusArchived})
			require.NoError(t, err)
			require.Len(t, archived, 1)
			assert.Equal(t, "NDA", archived[0].Title)
			assert.Equal(t, "Legal", archived[0].CategoryName)

			limited, err := NewActivityLogService(store).List(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, limited, 2)
		})
	}
}

func TestArchiveScenario_Updates(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			now := ticker()

			categories := NewCategoryService(store, logging.Discard()).(*categoryService)
			categories.now, categories.activity.now = now, now
			documents := NewDocumentService(store, nil, logging.Discard()).(*documentService)
			documents.now, documents.activity.now = now, now

			blue := "blue"
			fin, err := categories.Create(ctx, CategoryInput{Name: "Finance", Color: &blue})
			require.NoError(t, err)
			doc, err := documents.Create(ctx, CreateDocumentInput{
				Title: "Invoice", CategoryID: fin.ID, FilePath: "/f/i.pdf", FileType: "pdf", FileSize: 10,
			})
			require.NoError(t, err)

			emptyStatus, emptySecurity := model.DocumentStatus(""), model.SecurityLevel("")
			_, err = documents.Update(ctx, doc.ID, UpdateDocumentInput{Status: &emptyStatus, Security: &emptySecurity}, nil)
			assert.ErrorIs(t, err, domain.ErrValidation)

			stored, err := documents.Get(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusActive, stored.Status)
			assert.Equal(t, model.SecurityInternal, stored.Security)

			renamed, err := categories.Update(ctx, fin.ID, CategoryInput{Name: "Accounting"})
			require.NoError(t, err)
			require.NotNil(t, renamed.Color)
			assert.Equal(t, "blue", *renamed.Color)

			stored, err = documents.Get(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, "Accounting", stored.CategoryName)
			require.NotNil(t, stored.Category)
			assert.Equal(t, "Accounting", stored.Category.Name)
		})
	}
}
