package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Real реальные часы, всегда возвращают время в UTC
type Real struct{}

// Now возвращает текущее время
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed управляемые часы для тестов
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed создает часы, остановленные на моменте now
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now возвращает зафиксированное время
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set переставляет часы
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Advance сдвигает часы вперед на d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
