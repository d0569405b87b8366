package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	EmployeeID int64     // ID сотрудника
	LocationID int64     // ID точки
	ServiceID  int64     // ID услуги, определяет длительность слота
	Date       time.Time // Дата для получения слотов
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Начало дня в часовом поясе расписаний
	EmployeeID      int64
	LocationID      int64
	ServiceID       int64
	DurationMinutes int    // Длительность услуги вместе с техническим перерывом
	Slots           []Slot // Свободные слоты по возрастанию времени
}

// Slot модель временного слота [Start, End)
type Slot struct {
	Start time.Time
	End   time.Time
}
