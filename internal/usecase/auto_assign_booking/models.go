package auto_assign_booking

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
)

// Request модель запроса на бронирование без выбора сотрудника
type Request struct {
	CustomerID int64     // ID клиента
	PetID      int64     // ID питомца
	LocationID int64     // ID точки
	ServiceID  int64     // ID услуги
	Start      time.Time // Начало визита
	End        time.Time // Конец визита
	Price      float64
	Notes      *string // Дополнительные заметки (опционально)
}

func (r *Request) toCreateRequest(employeeID int64) bookings.CreateRequest {
	return bookings.CreateRequest{
		CustomerID: r.CustomerID,
		PetID:      r.PetID,
		EmployeeID: employeeID,
		LocationID: r.LocationID,
		ServiceID:  r.ServiceID,
		Start:      r.Start,
		End:        r.End,
		Price:      r.Price,
		Notes:      r.Notes,
	}
}
