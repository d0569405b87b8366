package bookings

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
)

// BookingStore интерфейс хранилища бронирований
type BookingStore interface {
	Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockEmployee(ctx context.Context, employeeID int64) error
	ListForEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, change domain.StatusChange) error
	Update(ctx context.Context, booking *domain.Booking) error
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityChecker проверка доступности и загрузки сотрудника
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, q availability.Query) (bool, error)
	Workload(ctx context.Context, employeeID int64, date time.Time) (*domain.WorkloadSnapshot, error)
	BeginningOfDay(date time.Time) time.Time
}

// EmployeeDirectory справочник сотрудников
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// RulesResolver источник действующих правил бронирования
type RulesResolver interface {
	Resolve(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error)
}

// CancellationStore хранилище записей об отменах
type CancellationStore interface {
	Create(ctx context.Context, record *domain.CancellationRecord) (*domain.CancellationRecord, error)
}

// AbuseEvaluator проверка отмены на злоупотребление
type AbuseEvaluator interface {
	ActiveRules(ctx context.Context) ([]*domain.AbuseRule, error)
	Evaluate(ctx context.Context, customerID int64, rules []*domain.AbuseRule) (domain.AbuseVerdict, error)
}

// NotificationSink получатель уведомлений
type NotificationSink interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// SettingsProvider текущие настройки движка; снимок читается на каждом вызове
type SettingsProvider interface {
	BookingSettings() Settings
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Metrics доменные счетчики бронирований
type Metrics interface {
	BookingCreated(status string)
	BookingConflict(operation string)
	BookingCancelled(initiator string, abuse bool)
	BookingCompleted(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
