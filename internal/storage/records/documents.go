// Package records implements the order and user repositories on top of a
// storage.Store that keeps each collection as one JSON document.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/domain/repository"
	"github.com/polkiloo/dispatch/internal/storage"
)

type orderDocument struct {
	Orders []model.Order `json:"orders"`
}

type userDocument struct {
	Users []model.User `json:"users"`
}

// sequenceDocument holds the last issued id per collection.
type sequenceDocument map[string]int64

// Documents is the repository factory over a document store.
type Documents struct {
	store   storage.Store
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
	locks   collectionLocks
}

// New creates repositories over store. A non-positive timeout disables per-call deadlines.
func New(store storage.Store, timeout time.Duration, logger *slog.Logger) *Documents {
	return &Documents{
		store:   store,
		timeout: timeout,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Orders returns the order repository.
func (d *Documents) Orders() repository.OrderRepository {
	return &orderRepository{docs: d}
}

// Users returns the user repository.
func (d *Documents) Users() repository.UserRepository {
	return &userRepository{docs: d}
}

// Ping checks that the underlying store is reachable.
func (d *Documents) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	if err := d.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping store: %w", domainErrors.ErrPersistence, err)
	}
	return nil
}

func (d *Documents) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

// read decodes collection into dst. found is false when the collection was never written.
func (d *Documents) read(ctx context.Context, collection string, dst any) (found bool, err error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	raw, err := d.store.Read(ctx, collection)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", domainErrors.ErrPersistence, collection, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", domainErrors.ErrPersistence, collection, err)
	}
	return true, nil
}

func (d *Documents) write(ctx context.Context, collection string, doc any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domainErrors.ErrPersistence, collection, err)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	if err := d.store.Write(ctx, collection, raw); err != nil {
		return fmt.Errorf("%w: write %s: %w", domainErrors.ErrPersistence, collection, err)
	}
	d.logger.Debug("collection written", slog.String("collection", collection))
	return nil
}

// loadOrders reads an order collection, initializing it as empty on first access.
// Callers hold the collection lock.
func (d *Documents) loadOrders(ctx context.Context, collection string) ([]model.Order, error) {
	var doc orderDocument
	found, err := d.read(ctx, collection, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := d.saveOrders(ctx, collection, nil); err != nil {
			return nil, err
		}
	}
	return doc.Orders, nil
}

func (d *Documents) saveOrders(ctx context.Context, collection string, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	return d.write(ctx, collection, orderDocument{Orders: orders})
}

func (d *Documents) loadUsers(ctx context.Context) ([]model.User, error) {
	var doc userDocument
	found, err := d.read(ctx, storage.CollectionUsers, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := d.saveUsers(ctx, nil); err != nil {
			return nil, err
		}
	}
	return doc.Users, nil
}

func (d *Documents) saveUsers(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return d.write(ctx, storage.CollectionUsers, userDocument{Users: users})
}

// nextID issues the next id for collection. The counter never falls behind
// the largest numeric id already present, so restored or hand edited data
// cannot cause collisions. Callers hold the sequences lock.
func (d *Documents) nextID(ctx context.Context, collection string, existing []string) (string, error) {
	seq := sequenceDocument{}
	if _, err := d.read(ctx, storage.CollectionSequences, &seq); err != nil {
		return "", err
	}
	if seq == nil {
		seq = sequenceDocument{}
	}

	current := seq[collection]
	if highest := maxNumericID(existing); highest > current {
		current = highest
	}
	current++
	seq[collection] = current

	if err := d.write(ctx, storage.CollectionSequences, seq); err != nil {
		return "", err
	}
	return strconv.FormatInt(current, 10), nil
}

func maxNumericID(ids []string) int64 {
	var highest int64
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// collectionLocks serializes read-modify-write cycles per collection.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the named collections in sorted order and returns the release func.
func (l *collectionLocks) lock(names ...string) func() {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	held := make([]*sync.Mutex, 0, len(sorted))
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			continue
		}
		m, ok := l.locks[name]
		if !ok {
			m = &sync.Mutex{}
			l.locks[name] = m
		}
		held = append(held, m)
	}
	l.mu.Unlock()

	for _, m := range held {
		m.Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
