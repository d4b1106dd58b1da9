package cache

import (
	"container/list"
	"sync"
	"time"
)

// Memory is a size-bounded, TTL-expiring LRU cache.
//
// Its lifecycle is explicit: construct it with its owner, optionally start
// the janitor, and Close it when the owner goes away. Close evicts every
// entry through the eviction callback.
//
// Memory is safe for concurrent use.
type Memory[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	ll      *list.List
	items   map[K]*list.Element
	now     func() time.Time
	onEvict func(K, V)

	stopOnce sync.Once
	stop     chan struct{}
}

type memoryEntry[K comparable, V any] struct {
	key     K
	val     V
	expires time.Time
}

type Option[K comparable, V any] func(*Memory[K, V])

// WithOnEvict registers fn to run for every entry removed by expiry,
// capacity pressure, Delete, Purge or Close. fn runs without the cache lock
// held.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(m *Memory[K, V]) { m.onEvict = fn }
}

// WithClock overrides time.Now, for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(m *Memory[K, V]) { m.now = now }
}

// NewMemory returns a cache holding at most maxSize entries for ttl each.
// A ttl <= 0 disables expiry; a maxSize <= 0 disables the size bound.
func NewMemory[K comparable, V any](ttl time.Duration, maxSize int, opts ...Option[K, V]) *Memory[K, V] {
	m := &Memory[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		ll:      list.New(),
		items:   make(map[K]*list.Element),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()

	el, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		var zero V
		return zero, false
	}

	e := el.Value.(*memoryEntry[K, V])
	if m.expired(e) {
		m.removeElement(el)
		m.mu.Unlock()
		m.evicted([]*memoryEntry[K, V]{e})
		var zero V
		return zero, false
	}

	m.ll.MoveToFront(el)
	m.mu.Unlock()
	return e.val, true
}

// Set stores val under key, refreshing its TTL, and evicts the least
// recently used entries beyond maxSize.
func (m *Memory[K, V]) Set(key K, val V) {
	m.mu.Lock()

	var dropped []*memoryEntry[K, V]
	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry[K, V])
		e.val = val
		e.expires = m.expiry()
		m.ll.MoveToFront(el)
	} else {
		e := &memoryEntry[K, V]{key: key, val: val, expires: m.expiry()}
		m.items[key] = m.ll.PushFront(e)
	}

	for m.maxSize > 0 && m.ll.Len() > m.maxSize {
		oldest := m.ll.Back()
		dropped = append(dropped, oldest.Value.(*memoryEntry[K, V]))
		m.removeElement(oldest)
	}

	m.mu.Unlock()
	m.evicted(dropped)
}

// Delete removes key and reports whether it was present.
func (m *Memory[K, V]) Delete(key K) bool {
	m.mu.Lock()
	el, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return false
	}
	e := el.Value.(*memoryEntry[K, V])
	m.removeElement(el)
	m.mu.Unlock()

	m.evicted([]*memoryEntry[K, V]{e})
	return true
}

// Len counts entries, including expired ones not yet swept.
func (m *Memory[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

// Sweep removes all expired entries and returns how many were removed.
func (m *Memory[K, V]) Sweep() int {
	m.mu.Lock()
	var dropped []*memoryEntry[K, V]
	for el := m.ll.Back(); el != nil; {
		prev := el.Prev()
		e := el.Value.(*memoryEntry[K, V])
		if m.expired(e) {
			dropped = append(dropped, e)
			m.removeElement(el)
		}
		el = prev
	}
	m.mu.Unlock()

	m.evicted(dropped)
	return len(dropped)
}

// Purge removes every entry.
func (m *Memory[K, V]) Purge() {
	m.mu.Lock()
	dropped := make([]*memoryEntry[K, V], 0, m.ll.Len())
	for el := m.ll.Front(); el != nil; el = el.Next() {
		dropped = append(dropped, el.Value.(*memoryEntry[K, V]))
	}
	m.ll.Init()
	m.items = make(map[K]*list.Element)
	m.mu.Unlock()

	m.evicted(dropped)
}

// StartJanitor sweeps expired entries every interval until Close.
func (m *Memory[K, V]) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Close stops the janitor and purges the cache.
func (m *Memory[K, V]) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.Purge()
}

func (m *Memory[K, V]) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func (m *Memory[K, V]) expired(e *memoryEntry[K, V]) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *Memory[K, V]) removeElement(el *list.Element) {
	e := el.Value.(*memoryEntry[K, V])
	delete(m.items, e.key)
	m.ll.Remove(el)
}

func (m *Memory[K, V]) evicted(entries []*memoryEntry[K, V]) {
	if m.onEvict == nil {
		return
	}
	for _, e := range entries {
		m.onEvict(e.key, e.val)
	}
}
