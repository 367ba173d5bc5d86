package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Collections persisted by the dispatch service.
const (
	CollectionOrders    = "orders"
	CollectionWaitlist  = "waitlist"
	CollectionUsers     = "users"
	CollectionSequences = "sequences"
)

// ErrDocumentNotFound is returned by Read when the collection has never been written.
var ErrDocumentNotFound = errors.New("document not found")

// Store persists whole JSON documents keyed by collection name.
type Store interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, document []byte) error
	Ping(ctx context.Context) error
	Close() error
}

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateCollection rejects names that are unsafe as file names or keys.
func ValidateCollection(name string) error {
	if !collectionName.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}
