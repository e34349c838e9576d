package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingStore(t *testing.T) {
	now := time.Unix(1_000, 0)
	p := NewPendingStore[string](time.Minute)
	p.now = func() time.Time { return now }

	p.Put("a", "first")
	p.Put("b", "second")

	v, ok := p.Take("a")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = p.Take("a")
	assert.False(t, ok, "tokens are single use")

	now = now.Add(2 * time.Minute)
	_, ok = p.Take("b")
	assert.False(t, ok, "expired tokens are rejected")

	p.Put("c", "third")
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, p.Sweep())
	assert.Equal(t, 0, p.Len())
}
