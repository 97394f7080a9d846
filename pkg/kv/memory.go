package kv

import (
	"context"
	"sync"
	"time"
)

// counterSweepInterval bounds how often IncrWithTTL drops expired windows.
const counterSweepInterval = time.Minute

// Memory is a process-local Store. It also satisfies the rate limiter counter
// surface so a single-node deployment needs no external services.
type Memory struct {
	mu       sync.Mutex
	values   map[string]string
	counters map[string]counter
	swept    time.Time
	now      func() time.Time
}

type counter struct {
	count     int64
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string]string),
		counters: make(map[string]counter),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// IncrWithTTL increments key and starts its window on the first increment.
func (m *Memory) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.Sub(m.swept) >= counterSweepInterval {
		m.sweepCountersLocked(now)
	}
	c, ok := m.counters[key]
	if !ok || c.expired(now) {
		c = counter{}
		if ttl > 0 {
			c.expiresAt = now.Add(ttl)
		}
	}
	c.count++
	m.counters[key] = c
	return c.count, nil
}

// sweepCountersLocked drops every window that has ended. Counters without a
// TTL are kept.
func (m *Memory) sweepCountersLocked(now time.Time) {
	for key, c := range m.counters {
		if c.expired(now) {
			delete(m.counters, key)
		}
	}
	m.swept = now
}

func (c counter) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && !now.Before(c.expiresAt)
}
