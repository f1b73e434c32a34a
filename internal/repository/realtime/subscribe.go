package realtime

import (
	"context"
	"errors"
	"sync"

	"docarchive/internal/model"
	"docarchive/internal/repository"
)

// ErrClosed is returned by Subscribe once the store is closed.
var ErrClosed = errors.New("realtime store closed")

// snapshotLogLimit caps the activity snapshot pushed to subscribers.
const snapshotLogLimit = 50

type subscriber struct {
	ch chan repository.Snapshot
}

// offer replaces any undelivered snapshot with snap so a slow reader only sees the latest state.
// Callers hold the store write lock, so there is a single producer per channel.
func (s *subscriber) offer(snap repository.Snapshot) {
	select {
	case s.ch <- snap:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}

// Subscribe streams full snapshots of collection c, starting with the current one.
func (s *Store) Subscribe(ctx context.Context, c repository.Collection) (<-chan repository.Snapshot, func(), error) {
	if _, ok := repository.ParseCollection(string(c)); !ok {
		return nil, nil, errors.New("unknown collection: " + string(c))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, ErrClosed
	}
	id := s.nextSubID
	s.nextSubID++
	sub := &subscriber{ch: make(chan repository.Snapshot, 1)}
	if s.subs[c] == nil {
		s.subs[c] = make(map[int]*subscriber)
	}
	s.subs[c][id] = sub
	sub.offer(s.snapshotLocked(c))
	s.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subs[c]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(sub.ch)
				}
			}
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		}
	}()

	return sub.ch, unsubscribe, nil
}

func (s *Store) snapshotLocked(c repository.Collection) repository.Snapshot {
	snap := repository.Snapshot{Collection: c}
	switch c {
	case repository.CollectionCategories:
		snap.Items = s.categoryListLocked()
	case repository.CollectionDocuments:
		snap.Items = s.documentListLocked(model.DocumentFilter{})
	case repository.CollectionActivityLogs:
		snap.Items = s.activityListLocked(snapshotLogLimit)
	}
	return snap
}

// publishLocked pushes a fresh snapshot of each collection to its subscribers.
func (s *Store) publishLocked(collections ...repository.Collection) {
	for _, c := range collections {
		subs := s.subs[c]
		if len(subs) == 0 {
			continue
		}
		snap := s.snapshotLocked(c)
		for _, sub := range subs {
			sub.offer(snap)
		}
	}
}
