package complete_stale_bookings

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// UseCase автозавершение "зависших" бронирований
type UseCase struct {
	bookings  StaleBookingLister
	completer Completer
	settings  SettingsProvider
	metrics   Metrics
	logger    Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(bookings StaleBookingLister, completer Completer, settings SettingsProvider, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		bookings:  bookings,
		completer: completer,
		settings:  settings,
		metrics:   metrics,
		logger:    logger,
	}
}

// RunOnce завершает незавершенные бронирования, начавшиеся в окне
// [now - lookback - 1 день, now - lookback). Ошибка отдельного бронирования
// логируется и учитывается в Failed, обработка продолжается
func (uc *UseCase) RunOnce(ctx context.Context, now time.Time) (*Result, error) {
	settings := uc.settings.SweeperSettings().withDefaults()
	if !settings.Enabled {
		uc.logger.Info("CompleteStaleBookings: sweeper is disabled, skipping")
		return &Result{}, nil
	}

	if _, err := settings.TargetOutcome.Status(); err != nil {
		uc.logger.Error("CompleteStaleBookings: bad target outcome %q: %v", settings.TargetOutcome, err)
		return nil, fmt.Errorf("%w: sweeper target outcome: %w", domain.ErrFatalConfig, err)
	}

	to := now.AddDate(0, 0, -settings.LookbackDays)
	from := to.AddDate(0, 0, -1)

	stale, err := uc.bookings.ListStale(ctx, from, to)
	if err != nil {
		uc.logger.Error("CompleteStaleBookings: failed to list bookings in [%s, %s): %v",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
		return nil, err
	}

	result := &Result{Selected: len(stale)}
	uc.logger.Info("CompleteStaleBookings: %d bookings in [%s, %s) -> %s",
		result.Selected, from.Format(time.RFC3339), to.Format(time.RFC3339), settings.TargetOutcome)

	var limiter *rate.Limiter
	if settings.MaxPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.MaxPerSecond), 1)
	}

	for _, b := range stale {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				uc.logger.Warn("CompleteStaleBookings: stopped early: %v", err)
				break
			}
		}

		if _, err := uc.completer.Complete(ctx, b.ID, domain.SystemActor, settings.TargetOutcome); err != nil {
			uc.logger.Warn("CompleteStaleBookings: booking id=%d not completed: %v", b.ID, err)
			result.Failed++
			continue
		}
		result.Completed++
	}

	if uc.metrics != nil {
		uc.metrics.SweeperRun(result.Completed, result.Failed)
	}

	uc.logger.Info("CompleteStaleBookings: done, completed=%d, failed=%d", result.Completed, result.Failed)
	return result, nil
}
