// Package realtime is the schema-less, push-based adapter of repository.Store.
//
// It keeps a tree of three collections (categories, documents, activity_logs),
// each a map from a generated push key to a record. Like a realtime database
// it enforces neither unique names nor foreign keys: the service layer checks
// both before writing, and documents whose category has vanished are returned
// with a nil Category. Every mutation pushes a full snapshot of the affected
// collections to subscribers.
package realtime

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/xid"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// Store implements repository.Store and repository.Subscriber in memory.
type Store struct {
	mu         sync.RWMutex
	categories map[string]model.Category
	documents  map[string]model.Document
	logs       map[string]model.ActivityLog
	subs       map[repository.Collection]map[int]*subscriber
	nextSubID  int
	closed     bool
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.Subscriber = (*Store)(nil)
)

// NewStore returns an empty tree.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]model.Category),
		documents:  make(map[string]model.Document),
		logs:       make(map[string]model.ActivityLog),
		subs:       make(map[repository.Collection]map[int]*subscriber),
	}
}

// pushKey returns a new key; keys sort in creation order.
func pushKey() string {
	return xid.New().String()
}

func (s *Store) Categories() repository.CategoryRepository      { return categoryRepo{s} }
func (s *Store) Documents() repository.DocumentRepository       { return documentRepo{s} }
func (s *Store) ActivityLogs() repository.ActivityLogRepository { return activityRepo{s} }

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[string]model.Category)
	s.documents = make(map[string]model.Document)
	s.logs = make(map[string]model.ActivityLog)
	s.publishLocked(repository.CollectionCategories, repository.CollectionDocuments, repository.CollectionActivityLogs)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

// Close ends every subscription.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c, subs := range s.subs {
		for id, sub := range subs {
			close(sub.ch)
			delete(subs, id)
		}
		delete(s.subs, c)
	}
	return nil
}

// countLocked returns the number of documents filed under categoryID.
func (s *Store) countLocked(categoryID string) int {
	n := 0
	for _, d := range s.documents {
		if d.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) categoryLocked(id string) (model.Category, bool) {
	c, ok := s.categories[id]
	if !ok {
		return model.Category{}, false
	}
	c.DocumentCount = s.countLocked(id)
	return c, true
}

// joinLocked reconciles a document against category existence at read time.
func (s *Store) joinLocked(d model.Document) model.Document {
	d.Category = nil
	if c, ok := s.categories[d.CategoryID]; ok {
		c.DocumentCount = 0
		d.Category = &c
	}
	return d
}

func (s *Store) categoryListLocked() []model.Category {
	items := make([]model.Category, 0, len(s.categories))
	for id := range s.categories {
		c, _ := s.categoryLocked(id)
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func matches(d model.Document, f model.DocumentFilter) bool {
	if f.Search != "" {
		inDesc := d.Description != nil && strings.Contains(*d.Description, f.Search)
		if !strings.Contains(d.Title, f.Search) && !inDesc {
			return false
		}
	}
	if f.CategoryID != "" && d.CategoryID != f.CategoryID {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.StartDate != nil && d.UploadedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && d.UploadedAt.After(*f.EndDate) {
		return false
	}
	return true
}

func (s *Store) documentListLocked(f model.DocumentFilter) []model.Document {
	items := make([]model.Document, 0)
	for _, d := range s.documents {
		if matches(d, f) {
			items = append(items, s.joinLocked(d))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		}
		return items[i].ID > items[j].ID
	})
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items
}

func (s *Store) activityListLocked(limit int) []model.ActivityLog {
	items := make([]model.ActivityLog, 0, len(s.logs))
	for _, e := range s.logs {
		e.Document = nil
		if e.DocumentID != nil {
			if d, ok := s.documents[*e.DocumentID]; ok {
				e.Document = &model.DocumentRef{ID: d.ID, Title: d.Title}
			}
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
