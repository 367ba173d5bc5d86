package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/polkiloo/dispatch/internal/storage"
)

// MemoryStore is an in-memory storage.Store with failure injection.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string][]byte
	readErr  map[string]error
	writeErr map[string]error
	writes   map[string]int
	pingErr  error
	closed   bool

	// Intercept rewrites or rejects a document before it is stored.
	Intercept func(collection string, document []byte) ([]byte, error)
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string][]byte),
		readErr:  make(map[string]error),
		writeErr: make(map[string]error),
		writes:   make(map[string]int),
	}
}

// Seed stores a raw document without counting it as a write.
func (s *MemoryStore) Seed(collection, document string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection] = []byte(document)
}

// Document returns the stored document for collection.
func (s *MemoryStore) Document(collection string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[collection]
	return append([]byte(nil), doc...), ok
}

// FailReads makes every Read of collection return err. A nil err clears it.
func (s *MemoryStore) FailReads(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr[collection] = err
}

// FailWrites makes every Write of collection return err. A nil err clears it.
func (s *MemoryStore) FailWrites(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr[collection] = err
}

// FailPing makes Ping return err.
func (s *MemoryStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// Writes returns how many successful writes hit collection.
func (s *MemoryStore) Writes(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[collection]
}

// Closed reports whether Close was called.
func (s *MemoryStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MemoryStore) Read(ctx context.Context, collection string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readErr[collection]; err != nil {
		return nil, err
	}
	doc, ok := s.docs[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, collection)
	}
	return append([]byte(nil), doc...), nil
}

func (s *MemoryStore) Write(ctx context.Context, collection string, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	intercept := s.Intercept
	if err := s.writeErr[collection]; err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	stored := append([]byte(nil), document...)
	if intercept != nil {
		var err error
		if stored, err = intercept(collection, stored); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection] = stored
	s.writes[collection]++
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
