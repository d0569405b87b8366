package get_cancellation_report

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// MaxReportDays максимальная длина периода отчета
const MaxReportDays = 366

// Request модель запроса отчета по отменам за [From, To)
type Request struct {
	From       time.Time
	To         time.Time
	LocationID *int64 // nil - все точки
}

// Response отчет: отмены (последние первыми) и статистика по ним
type Response struct {
	From          time.Time
	To            time.Time
	Total         int
	ByClient      int
	ByProvider    int
	ByLocation    []GroupCount // по убыванию количества
	ByService     []GroupCount // по убыванию количества
	Cancellations []*domain.Booking
}

// GroupCount количество отмен в группе
type GroupCount struct {
	ID    int64
	Count int
}
