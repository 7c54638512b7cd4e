package memory

import (
	"sort"
	"sync"

	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// table is a mutex-guarded map of value records keyed by id.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = row
}

func (t *table[T]) replace(id string, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	t.rows[id] = row
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, sentinel.ErrNotFound
	}
	return row, nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// filter returns matching rows ordered by less.
func (t *table[T]) filter(match func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	var out []T
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func page[T any](rows []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
