package get_cancellation_report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// UseCase use case отчета по отменам бронирований
type UseCase struct {
	bookings CancelledBookingLister
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookings CancelledBookingLister, logger Logger) *UseCase {
	return &UseCase{
		bookings: bookings,
		logger:   logger,
	}
}

// Execute строит отчет по отменам за период: список отмен и счетчики
// по инициатору, точке и услуге
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCancellationReport: from=%s, to=%s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация периода
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCancellationReport: validation failed: %v", err)
		return nil, err
	}

	// 2. Отмены за период
	list, err := uc.bookings.ListCancelled(ctx, domain.CancelledBookingsFilter{
		From:       req.From,
		To:         req.To,
		LocationID: req.LocationID,
	})
	if err != nil {
		uc.logger.Error("GetCancellationReport: failed to list cancellations: %v", err)
		return nil, fmt.Errorf("%w: failed to list cancellations: %w", ErrInternal, err)
	}

	// 3. Статистика
	resp := &Response{
		From:          req.From,
		To:            req.To,
		Total:         len(list),
		Cancellations: list,
	}

	byLocation := make(map[int64]int)
	byService := make(map[int64]int)
	for _, b := range list {
		switch b.Status {
		case domain.StatusCancelledByClient:
			resp.ByClient++
		case domain.StatusCancelledByProvider:
			resp.ByProvider++
		}
		byLocation[b.LocationID]++
		byService[b.ServiceID]++
	}
	resp.ByLocation = sortedGroups(byLocation)
	resp.ByService = sortedGroups(byService)

	uc.logger.Info("GetCancellationReport: %d cancellations (client=%d, provider=%d)", resp.Total, resp.ByClient, resp.ByProvider)
	return resp, nil
}

func validateRequest(req *Request) error {
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidPeriod)
	}
	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidPeriod)
	}
	if req.To.Sub(req.From) > MaxReportDays*24*time.Hour {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidPeriod, MaxReportDays)
	}
	if req.LocationID != nil && *req.LocationID <= 0 {
		return fmt.Errorf("%w: location id must be positive", ErrInvalidInput)
	}
	return nil
}

// sortedGroups упорядочивает группы по убыванию количества, при равенстве по ID
func sortedGroups(counts map[int64]int) []GroupCount {
	groups := make([]GroupCount, 0, len(counts))
	for id, n := range counts {
		groups = append(groups, GroupCount{ID: id, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}
