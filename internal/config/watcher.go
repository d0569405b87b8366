package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
	"github.com/m04kA/PetCare-SchedulingService/internal/usecase/complete_stale_bookings"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Watcher держит актуальный снимок конфигурации и перечитывает файл при изменении mtime.
// Невалидный файл логируется, предыдущий снимок остается в силе
type Watcher struct {
	path    string
	current atomic.Pointer[Config]
	logger  Logger

	mu      sync.Mutex
	modTime time.Time
}

// NewWatcher создает watcher с начальным снимком initial
func NewWatcher(path string, initial *Config, logger Logger) *Watcher {
	w := &Watcher{path: path, logger: logger}
	w.current.Store(initial)
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w
}

// Current возвращает текущий снимок конфигурации
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// Run опрашивает файл с периодом reload.interval_seconds до отмены ctx
func (w *Watcher) Run(ctx context.Context) {
	interval := w.Current().Reload.Interval()
	if interval <= 0 {
		w.logger.Info("Config watcher: reload is disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("Config watcher: polling %s every %s", w.path, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Reload(); err != nil {
				w.logger.Error("Config watcher: %v", err)
			}
		}
	}
}

// Reload перечитывает файл, если он изменился с прошлой проверки.
// Возвращает true, если снимок был заменен
func (w *Watcher) Reload() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := os.Stat(w.path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", w.path, err)
	}
	if !info.ModTime().After(w.modTime) {
		return false, nil
	}
	w.modTime = info.ModTime()

	next, err := Load(w.path)
	if err != nil {
		return false, fmt.Errorf("reload rejected, keeping previous config: %w", err)
	}

	w.current.Store(next)
	w.logger.Info("Config watcher: configuration reloaded from %s", w.path)
	return true, nil
}

// BookingSettings настройки движка бронирований из текущего снимка
func (w *Watcher) BookingSettings() bookings.Settings {
	s := w.Current().Scheduling
	return bookings.Settings{
		RequireConfirmation: s.RequireConfirmation,
		CodeAttempts:        s.CodeAttempts,
		NotificationTimeout: time.Duration(s.NotificationTimeoutSeconds) * time.Second,
	}
}

// SweeperSettings настройки автозавершения из текущего снимка
func (w *Watcher) SweeperSettings() complete_stale_bookings.Settings {
	s := w.Current().Sweeper
	return complete_stale_bookings.Settings{
		Enabled:       s.Enabled,
		LookbackDays:  s.LookbackDays,
		TargetOutcome: domain.CompletionOutcome(s.TargetOutcome),
		MaxPerSecond:  s.MaxPerSecond,
	}
}
