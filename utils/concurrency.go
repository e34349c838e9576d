package utils

import (
	"sync"
	"time"
)

// PendingStore holds short-lived values keyed by token, such as the payload
// behind a confirmation button. Entries past their expiry are never returned.
type PendingStore[T any] struct {
	mu      sync.Mutex
	entries map[string]pendingEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

type pendingEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewPendingStore[T any](ttl time.Duration) *PendingStore[T] {
	return &PendingStore[T]{
		entries: make(map[string]pendingEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores value under token.
func (p *PendingStore[T]) Put(token string, value T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[token] = pendingEntry[T]{value: value, expiresAt: p.now().Add(p.ttl)}
}

// Take removes and returns the value for token. It reports false when the
// token is unknown or expired.
func (p *PendingStore[T]) Take(token string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[token]
	delete(p.entries, token)
	if !ok || p.now().After(entry.expiresAt) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Sweep drops expired entries and returns how many were removed.
func (p *PendingStore[T]) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	removed := 0
	for token, entry := range p.entries {
		if now.After(entry.expiresAt) {
			delete(p.entries, token)
			removed++
		}
	}
	return removed
}

func (p *PendingStore[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
