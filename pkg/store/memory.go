package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/formdeck/formdeck/pkg/errors"
	"github.com/formdeck/formdeck/pkg/form"
)

// MemoryStore keeps documents in a map. Used in tests and by the server
// when no backend is configured. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*form.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*form.Document)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*form.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	cp := *doc
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *form.Document) error {
	if err := errors.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "document %q", doc.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *doc
	cp.UpdatedAt = time.Now()
	s.docs[doc.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, summarize(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
