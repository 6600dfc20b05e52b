package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryRepository implements Repository[T] with a mutex-guarded map. It
// enforces declared unique keys the same way the SQL schema does, so that
// the service layer sees ErrDuplicate from both backends.
type MemoryRepository[T any, P Record[T]] struct {
	mu     sync.RWMutex
	items  map[string]*T
	unique [][]string
}

func NewMemoryRepository[T any, P Record[T]]() *MemoryRepository[T, P] {
	return &MemoryRepository[T, P]{items: make(map[string]*T)}
}

// WithUnique declares a (possibly composite) unique key over the given
// attribute names. String values are compared case-insensitively.
func (r *MemoryRepository[T, P]) WithUnique(fields ...string) *MemoryRepository[T, P] {
	r.unique = append(r.unique, fields)
	return r
}

func (r *MemoryRepository[T, P]) Get(_ context.Context, id string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *MemoryRepository[T, P]) GetAll(_ context.Context) ([]T, error) {
	return r.filter(func(P) bool { return true }), nil
}

func (r *MemoryRepository[T, P]) GetByAttribute(_ context.Context, field string, value any) (*T, error) {
	var probe T
	if _, ok := P(&probe).Attribute(field); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, field)
	}
	matches := r.filter(func(p P) bool {
		v, _ := p.Attribute(field)
		return v == value
	})
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (r *MemoryRepository[T, P]) Add(_ context.Context, e *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := P(e).EntityID()
	if _, ok := r.items[id]; ok {
		return ErrDuplicate
	}
	if r.clashes(P(e)) {
		return ErrDuplicate
	}
	cp := *e
	r.items[id] = &cp
	return nil
}

func (r *MemoryRepository[T, P]) Update(_ context.Context, id string, patch Patch[T]) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := *item
	patch.Apply(&next)
	if err := P(&next).Validate(); err != nil {
		return nil, err
	}
	if r.clashes(P(&next)) {
		return nil, ErrDuplicate
	}
	P(&next).Touch(time.Now())
	r.items[id] = &next
	out := next
	return &out, nil
}

func (r *MemoryRepository[T, P]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// filter returns copies of the matching items in creation order.
func (r *MemoryRepository[T, P]) filter(keep func(P) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		if keep(P(item)) {
			out = append(out, *item)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		if c := P(&a).Created().Compare(P(&b).Created()); c != 0 {
			return c
		}
		return strings.Compare(P(&a).EntityID(), P(&b).EntityID())
	})
	return out
}

// clashes reports whether e shares a unique key with another item.
// Callers hold the write lock.
func (r *MemoryRepository[T, P]) clashes(e P) bool {
	for _, fields := range r.unique {
		key := uniqueKey(e, fields)
		for id, item := range r.items {
			if id == e.EntityID() {
				continue
			}
			if uniqueKey(P(item), fields) == key {
				return true
			}
		}
	}
	return false
}

func uniqueKey(e Entity, fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		v, _ := e.Attribute(f)
		parts[i] = strings.ToLower(fmt.Sprint(v))
	}
	return strings.Join(parts, "\x00")
}
