// Package local implements the repository interfaces on a diskv-backed
// key-value directory. It is the fallback/demo persistence layer: the
// server runs fully featured without a MongoDB instance, storing one
// document per (feature, user) key under the configured base path.
//
// Documents are BSON-encoded so the stored shapes (and the legacy-action
// normalization that happens on decode) match the MongoDB repositories
// field for field.
package local

import (
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.mongodb.org/mongo-driver/bson"

	"coachpack/internal/repository"
)

// Store wraps a diskv directory shared by all local repositories.
type Store struct {
	d *diskv.Diskv

	// diskv itself is safe for concurrent use, but the repositories do
	// read-modify-write cycles over whole documents.
	mu sync.Mutex
}

// NewStore opens (creating if needed) the local store at basePath.
func NewStore(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// readDoc loads and decodes one document. Missing keys map to
// repository.ErrNotFound.
func (s *Store) readDoc(key string, out interface{}) error {
	val, err := s.d.Read(key)
	if err != nil {
		return repository.ErrNotFound
	}
	return bson.Unmarshal(val, out)
}

// writeDoc encodes and stores one document.
func (s *Store) writeDoc(key string, value interface{}) error {
	data, err := bson.Marshal(value)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func (s *Store) has(key string) bool {
	return s.d.Has(key)
}
