// internal/store/memory.go
// In-memory implementation of the Store interface. Used in development mode
// when Firestore is not configured, and in tests. Mirrors the semantics the
// code relies on: ordered queries, server timestamps, snapshot listeners
// and read-then-write transactions.

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type watcher struct {
	q  Query
	fn func([]Doc)
}

// MemoryStore implements Store with mutex-guarded maps
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]map[string]interface{} // full doc path -> fields
	watchers map[int64]*watcher
	nextWID  int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]map[string]interface{}),
		watchers: make(map[int64]*watcher),
	}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (*Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return &Doc{ID: docID(path), Data: copyMap(data)}, nil
}

func (s *MemoryStore) GetAll(ctx context.Context, q Query) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runQuery(q), nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, data map[string]interface{}) error {
	s.mu.Lock()
	s.docs[path] = resolveSentinels(data, time.Now().UTC())
	s.mu.Unlock()

	s.notify(parentCollection(path))
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	existing, ok := s.docs[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("failed to update %s: %w", path, ErrNotFound)
	}
	mergeInto(existing, resolveSentinels(fields, time.Now().UTC()))
	s.mu.Unlock()

	s.notify(parentCollection(path))
	return nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.docs[collection+"/"+id] = resolveSentinels(data, time.Now().UTC())
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()

	s.notify(parentCollection(path))
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, q Query, fn func([]Doc)) (func(), error) {
	s.mu.Lock()
	s.nextWID++
	id := s.nextWID
	s.watchers[id] = &watcher{q: q, fn: fn}
	initial := s.runQuery(q)
	s.mu.Unlock()

	// Initial snapshot, as a live listener delivers one immediately
	fn(initial)

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return cancel, nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()

	tx := &memoryTx{store: s}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}

	// Commit staged writes with a single timestamp
	now := time.Now().UTC()
	touched := make(map[string]bool)
	for _, w := range tx.writes {
		w.apply(s, now)
		touched[parentCollection(w.path)] = true
	}
	s.mu.Unlock()

	for collection := range touched {
		s.notify(collection)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// memoryTx stages writes until commit. Reads see the committed state, not
// staged writes, matching the hosted store's read-before-write rule.
type memoryTx struct {
	store  *MemoryStore
	writes []txWrite
}

type txWrite struct {
	path  string
	apply func(s *MemoryStore, now time.Time)
}

func (tx *memoryTx) Get(path string) (*Doc, error) {
	data, ok := tx.store.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return &Doc{ID: docID(path), Data: copyMap(data)}, nil
}

func (tx *memoryTx) GetAll(q Query) ([]Doc, error) {
	return tx.store.runQuery(q), nil
}

func (tx *memoryTx) Set(path string, data map[string]interface{}) error {
	data = copyMap(data)
	tx.writes = append(tx.writes, txWrite{path: path, apply: func(s *MemoryStore, now time.Time) {
		s.docs[path] = resolveSentinels(data, now)
	}})
	return nil
}

func (tx *memoryTx) Update(path string, fields map[string]interface{}) error {
	fields = copyMap(fields)
	tx.writes = append(tx.writes, txWrite{path: path, apply: func(s *MemoryStore, now time.Time) {
		if existing, ok := s.docs[path]; ok {
			mergeInto(existing, resolveSentinels(fields, now))
		}
	}})
	return nil
}

func (tx *memoryTx) Delete(path string) error {
	tx.writes = append(tx.writes, txWrite{path: path, apply: func(s *MemoryStore, now time.Time) {
		delete(s.docs, path)
	}})
	return nil
}

// runQuery evaluates a query against current state. Caller holds the lock.
func (s *MemoryStore) runQuery(q Query) []Doc {
	var docs []Doc
	prefix := q.Path + "/"
	for path, data := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if strings.Contains(path[len(prefix):], "/") {
			continue // document in a nested subcollection
		}
		if !matchesFilters(data, q.Filters) {
			continue
		}
		docs = append(docs, Doc{ID: docID(path), Data: copyMap(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range q.OrderBy {
			a := lookupField(docs[i].Data, o.Field)
			b := lookupField(docs[j].Data, o.Field)
			c := compareValues(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return docs[i].ID < docs[j].ID
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

// notify re-runs every watcher on the mutated collection
func (s *MemoryStore) notify(collection string) {
	s.mu.RLock()
	type delivery struct {
		fn   func([]Doc)
		docs []Doc
	}
	var deliveries []delivery
	for _, w := range s.watchers {
		if w.q.Path != collection {
			continue
		}
		deliveries = append(deliveries, delivery{fn: w.fn, docs: s.runQuery(w.q)})
	}
	s.mu.RUnlock()

	for _, d := range deliveries {
		d.fn(d.docs)
	}
}

func matchesFilters(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		val := lookupField(data, f.Field)
		switch f.Op {
		case "==":
			if !valuesEqual(val, f.Value) {
				return false
			}
		case "array-contains":
			if !arrayContains(val, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && a != nil && b != nil
}

func arrayContains(val, target interface{}) bool {
	switch arr := val.(type) {
	case []interface{}:
		for _, v := range arr {
			if valuesEqual(v, target) {
				return true
			}
		}
	case []string:
		for _, v := range arr {
			if valuesEqual(v, target) {
				return true
			}
		}
	}
	return false
}

// compareValues orders two field values: -1, 0 or 1
func compareValues(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// lookupField resolves a dotted field path into nested maps
func lookupField(data map[string]interface{}, field string) interface{} {
	parts := strings.Split(field, ".")
	var cur interface{} = data
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

// resolveSentinels deep-copies data, replacing ServerTimestamp with now
func resolveSentinels(data map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case serverTimestamp:
			out[k] = now
		case map[string]interface{}:
			out[k] = resolveSentinels(val, now)
		case []interface{}:
			out[k] = append([]interface{}(nil), val...)
		case []string:
			out[k] = append([]string(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]interface{}); ok {
			if dstMap, ok := dst[k].(map[string]interface{}); ok {
				mergeInto(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}

func copyMap(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = copyMap(val)
		case []interface{}:
			out[k] = append([]interface{}(nil), val...)
		case []string:
			out[k] = append([]string(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

func docID(path string) string {
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}

func parentCollection(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}
