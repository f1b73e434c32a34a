package realtime

import (
	"context"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

type categoryRepo struct{ s *Store }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Create stores the category under a new push key. Names are not checked for uniqueness here.
func (r categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := *c
	rec.ID = pushKey()
	rec.Color = cloneString(c.Color)
	rec.DocumentCount = 0
	r.s.categories[rec.ID] = rec
	r.s.publishLocked(repository.CollectionCategories)

	out := rec
	return &out, nil
}

func (r categoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categoryLocked(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r categoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categoryListLocked() {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.categoryListLocked(), nil
}

func (r categoryRepo) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.categories[c.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.Name = c.Name
	rec.Color = cloneString(c.Color)
	rec.UpdatedAt = c.UpdatedAt
	r.s.categories[c.ID] = rec
	r.s.publishLocked(repository.CollectionCategories, repository.CollectionDocuments)

	out, _ := r.s.categoryLocked(c.ID)
	return &out, nil
}

// Delete removes the category node. Documents still pointing at it are not checked.
func (r categoryRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.categories, id)
	r.s.publishLocked(repository.CollectionCategories, repository.CollectionDocuments)
	return nil
}

type documentRepo struct{ s *Store }

// Create accepts any category id; existence is reconciled on read.
func (r documentRepo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := *doc
	rec.ID = pushKey()
	rec.Category = nil
	r.s.documents[rec.ID] = rec
	r.s.publishLocked(repository.CollectionDocuments, repository.CollectionCategories)

	out := r.s.joinLocked(rec)
	return &out, nil
}

func (r documentRepo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.s.joinLocked(d)
	return &out, nil
}

func (r documentRepo) List(ctx context.Context, f model.DocumentFilter) ([]model.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.documentListLocked(f), nil
}

func (r documentRepo) Count(ctx context.Context, f model.DocumentFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, d := range r.s.documents {
		if matches(d, f) {
			n++
		}
	}
	return n, nil
}

func (r documentRepo) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.documents[doc.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	rec := *doc
	rec.Category = nil
	r.s.documents[doc.ID] = rec
	r.s.publishLocked(repository.CollectionDocuments, repository.CollectionCategories, repository.CollectionActivityLogs)

	out := r.s.joinLocked(rec)
	return &out, nil
}

func (r documentRepo) RenameCategory(ctx context.Context, categoryID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := false
	for id, d := range r.s.documents {
		if d.CategoryID == categoryID && d.CategoryName != name {
			d.CategoryName = name
			r.s.documents[id] = d
			changed = true
		}
	}
	if changed {
		r.s.publishLocked(repository.CollectionDocuments)
	}
	return nil
}

func (r documentRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.documents, id)
	r.s.publishLocked(repository.CollectionDocuments, repository.CollectionCategories, repository.CollectionActivityLogs)
	return nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Append(ctx context.Context, entry *model.ActivityLog) (*model.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := *entry
	rec.ID = pushKey()
	rec.DocumentID = cloneString(entry.DocumentID)
	rec.Document = nil
	r.s.logs[rec.ID] = rec
	r.s.publishLocked(repository.CollectionActivityLogs)

	out := rec
	return &out, nil
}

func (r activityRepo) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activityListLocked(limit), nil
}

func (r activityRepo) DetachDocument(ctx context.Context, documentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := false
	for id, e := range r.s.logs {
		if e.DocumentID != nil && *e.DocumentID == documentID {
			e.DocumentID = nil
			r.s.logs[id] = e
			changed = true
		}
	}
	if changed {
		r.s.publishLocked(repository.CollectionActivityLogs)
	}
	return nil
}
