package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// entry конверт значения в кэше; Found=false запоминает отсутствие записи
type entry[T any] struct {
	Found bool `json:"found"`
	Value T    `json:"value"`
}

// loader общая логика read-through кэша: бэкенд, TTL и схлопывание одновременных промахов
type loader struct {
	backend Backend
	ttl     time.Duration
	logger  Logger
	group   singleflight.Group
}

func newLoader(backend Backend, ttl time.Duration, logger Logger) *loader {
	return &loader{backend: backend, ttl: ttl, logger: logger}
}

// load возвращает значение из кэша или вызывает fetch. Внутри транзакции кэш не используется.
// Ошибка fetch с domain.ErrNotFound кэшируется как отсутствие записи и возвращается как notFound
func load[T any](ctx context.Context, l *loader, key string, notFound error, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if dbmetrics.IsInTransaction(ctx) {
		return fetch(ctx)
	}

	if data, err := l.backend.Get(ctx, key); err == nil {
		var cached entry[T]
		if err := json.Unmarshal(data, &cached); err == nil {
			if !cached.Found {
				return zero, notFound
			}
			return cached.Value, nil
		}
		l.warn("cache: decode %s failed, refetching", key)
	} else if !errors.Is(err, ErrMiss) {
		l.warn("cache: get %s: %v", key, err)
	}

	// Загрузка общая для всех ожидающих: отмена контекста одного вызывающего ее не прерывает,
	// он только перестает ждать
	flightCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		value, err := fetch(flightCtx)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		cached := entry[T]{Found: err == nil, Value: value}
		l.store(flightCtx, key, cached)
		return cached, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}

	cached := res.Val.(entry[T])
	if !cached.Found {
		return zero, notFound
	}
	return cached.Value, nil
}

func (l *loader) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		l.warn("cache: encode %s: %v", key, err)
		return
	}
	if err := l.backend.Set(ctx, key, data, l.ttl); err != nil {
		l.warn("cache: set %s: %v", key, err)
	}
}

func (l *loader) warn(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(format, v...)
	}
}
