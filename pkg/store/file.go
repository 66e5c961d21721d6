package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/formdeck/formdeck/pkg/errors"
	"github.com/formdeck/formdeck/pkg/form"
)

// FileStore is a file-based document store for CLI usage.
// Documents are stored as JSON files in a config directory, one per ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based document store.
// If baseDir is empty, defaults to ~/.config/formdeck/documents/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "formdeck", "documents")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*form.Document, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.docPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	doc, err := form.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read document %q", id)
	}
	return doc, nil
}

func (s *FileStore) Put(ctx context.Context, doc *form.Document) error {
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
	if err := form.WriteFile(&cp, s.docPath(doc.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write document %q", doc.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateDocumentID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove document %q", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read document dir")
	}

	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		doc, err := form.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			// Unreadable files are skipped, not fatal. The rest of the
			// listing is still useful.
			continue
		}
		if doc.ID == "" {
			doc.ID = strings.TrimSuffix(entry.Name(), ".json")
		}
		out = append(out, summarize(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
