package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/utils/cache"
	"github.com/sahilchouksey/edu-directory/utils/metrics"
	"github.com/sahilchouksey/edu-directory/utils/validation"
	"go.uber.org/zap"
)

var (
	// ErrStoreUnavailable means the store could not be read or written.
	// A failed mutation leaves the set unchanged.
	ErrStoreUnavailable = errors.New("selection store unavailable")

	ErrInvalidItem = errors.New("invalid selection item")
)

// Store is a string key-value store. Get returns cache.ErrNotFound for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options configures one named set
type Options struct {
	Name string
	Key  string
	// Capacity bounds the set; the oldest item is evicted when exceeded. 0 is unbounded.
	Capacity int
	// StampAddedAt records when each item was first added
	StampAddedAt bool
	Now          func() time.Time
	Logger       *zap.Logger
}

// Set is a named selection set. Methods are safe for concurrent use.
type Set struct {
	mu        sync.Mutex
	opts      Options
	store     Store
	validator *validation.Validator
	items     []Item
}

// Load builds a set from the payload stored under opts.Key. A missing key
// yields an empty set. A corrupt payload is logged and discarded.
func Load(ctx context.Context, store Store, opts Options) (*Set, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Set{opts: opts, store: store, validator: validation.NewValidator()}

	raw, err := store.Get(ctx, opts.Key)
	if errors.Is(err, cache.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStoreUnavailable, opts.Name, err)
	}

	var stored []Item
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		opts.Logger.Warn("discarding corrupt selection payload",
			zap.String("set", opts.Name),
			zap.Error(err),
		)
		return s, nil
	}

	s.items = s.normalize(stored)
	return s, nil
}

// normalize drops invalid and duplicate items, then trims to capacity keeping the newest
func (s *Set) normalize(stored []Item) []Item {
	seen := make(map[string]bool, len(stored))
	items := make([]Item, 0, len(stored))
	for _, it := range stored {
		if err := s.validator.ValidateStruct(it); err != nil || seen[it.ID] {
			s.opts.Logger.Warn("dropping stored selection item",
				zap.String("set", s.opts.Name),
				zap.String("id", it.ID),
			)
			continue
		}
		seen[it.ID] = true
		if !s.opts.StampAddedAt {
			it.AddedAt = nil
		}
		items = append(items, it)
	}
	if s.opts.Capacity > 0 && len(items) > s.opts.Capacity {
		items = items[len(items)-s.opts.Capacity:]
	}
	return items
}

// Name returns the set's name
func (s *Set) Name() string { return s.opts.Name }

// Add appends item unless an item with the same id is present. When the set
// is full the oldest item is evicted and returned.
func (s *Set) Add(ctx context.Context, item Item) (added bool, evicted *Item, err error) {
	if err := s.validator.ValidateStruct(item); err != nil {
		return false, nil, fmt.Errorf("%w: %v", ErrInvalidItem, validation.FormatValidationErrors(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.ID) >= 0 {
		return false, nil, nil
	}

	item = item.clone()
	item.AddedAt = nil
	if s.opts.StampAddedAt {
		now := s.opts.Now().UTC()
		item.AddedAt = &now
	}

	next := append(s.snapshot(), item)
	if s.opts.Capacity > 0 && len(next) > s.opts.Capacity {
		oldest := next[0]
		evicted = &oldest
		next = next[1:]
	}

	if err := s.persist(ctx, next); err != nil {
		return false, nil, err
	}
	s.items = next

	metrics.SelectionMutations.WithLabelValues(s.opts.Name, "add").Inc()
	if evicted != nil {
		metrics.SelectionEvictions.WithLabelValues(s.opts.Name).Inc()
		s.opts.Logger.Debug("evicted oldest selection",
			zap.String("set", s.opts.Name),
			zap.String("id", evicted.ID),
		)
	}
	return true, evicted, nil
}

// Remove deletes the item with id. Removing an absent id is a no-op.
func (s *Set) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := s.snapshot()
	next = append(next[:i], next[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.items = next

	metrics.SelectionMutations.WithLabelValues(s.opts.Name, "remove").Inc()
	return true, nil
}

// Clear empties the set and deletes its stored payload
func (s *Set) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.opts.Key); err != nil {
		return fmt.Errorf("%w: clear %s: %v", ErrStoreUnavailable, s.opts.Name, err)
	}
	s.items = nil

	metrics.SelectionMutations.WithLabelValues(s.opts.Name, "clear").Inc()
	return nil
}

func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// List returns the items oldest first
func (s *Set) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ListByKind returns the items of one kind, oldest first
func (s *Set) ListByKind(kind model.EntityKind) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.Kind == kind {
			out = append(out, it.clone())
		}
	}
	return out
}

func (s *Set) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// snapshot deep-copies the current items
func (s *Set) snapshot() []Item {
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

func (s *Set) persist(ctx context.Context, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.opts.Name, err)
	}
	if err := s.store.Set(ctx, s.opts.Key, string(payload)); err != nil {
		s.opts.Logger.Error("failed to persist selection set",
			zap.String("set", s.opts.Name),
			zap.Error(err),
		)
		return fmt.Errorf("%w: save %s: %v", ErrStoreUnavailable, s.opts.Name, err)
	}
	return nil
}
