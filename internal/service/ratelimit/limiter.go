package ratelimit

import (
    "sync"
    "time"
)

// sweep thresholds: once the bucket map grows past maxBuckets, entries idle
// longer than staleAfter are dropped. Keys are client IPs, so the map would
// otherwise grow without bound.
const (
    maxBuckets = 10000
    staleAfter = 10 * time.Minute
)

type bucket struct {
    tokens     float64
    capacity   float64
    refillRate float64 // tokens per second
    last       time.Time
}

type Limiter struct {
    mu sync.Mutex
    m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
    now := time.Now()
    l.mu.Lock()
    b, ok := l.m[key]
    if !ok {
        if len(l.m) >= maxBuckets {
            l.sweepLocked(now)
        }
        b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
        l.m[key] = b
    }
    // refill
    elapsed := now.Sub(b.last).Seconds()
    if elapsed > 0 {
        b.tokens += elapsed * b.refillRate
        if b.tokens > b.capacity { b.tokens = b.capacity }
        b.last = now
    }
    if b.tokens >= 1 {
        b.tokens -= 1
        l.mu.Unlock()
        return true
    }
    l.mu.Unlock()
    return false
}

func (l *Limiter) sweepLocked(now time.Time) {
    for k, b := range l.m {
        if now.Sub(b.last) > staleAfter {
            delete(l.m, k)
        }
    }
}
