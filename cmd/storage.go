package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/PetCare-SchedulingService/internal/config"
	bookingRepo "github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/cancellation"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/pgerr"
	rulesRepo "github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/rules"
	scheduleRepo "github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/schedule"
	staffRepo "github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/abuse"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
	rulesService "github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/selector"
	completeStaleBookingsUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/complete_stale_bookings"
	getCancellationReportUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/metrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/txmanager"
)

type bookingRepository interface {
	bookingsService.BookingStore
	availability.BookingReader
	completeStaleBookingsUC.StaleBookingLister
	getCancellationReportUC.CancelledBookingLister
}

type cancellationRepository interface {
	bookingsService.CancellationStore
	abuse.CancellationCounter
	abuse.Moderator
	abuse.RuleSource
}

type scheduleRepository interface {
	availability.ScheduleProvider
}

type staffRepository interface {
	bookingsService.EmployeeDirectory
	selector.StaffDirectory
	availability.ServiceCatalog
}

// storage репозитории и менеджер транзакций выбранного хранилища
type storage struct {
	bookings      bookingRepository
	cancellations cancellationRepository
	schedules     scheduleRepository
	staff         staffRepository
	rules         rulesService.RulesRepository
	txManager     bookingsService.TransactionManager
	close         func()
}

// openStorage поднимает хранилище по cfg.Storage.Driver.
// m может быть nil, тогда запросы к БД не оборачиваются метриками
func openStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		store := memory.NewStore()
		return &storage{
			bookings:      store.Bookings(),
			cancellations: store.Cancellations(),
			schedules:     store.Schedules(),
			staff:         store.Staff(),
			rules:         store.Rules(),
			txManager:     store,
			close:         func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var (
		executor dbmetrics.DBExecutor = db
		beginner                      = txmanager.FromSQLDB(db)
		stopCh                        = make(chan struct{})
	)
	if m != nil {
		wrapped := dbmetrics.WrapWithDefault(db, m, m.ServiceName(), stopCh)
		executor, beginner = wrapped, wrapped
		log.Info("Database metrics collection started")
	}

	return &storage{
		bookings:      bookingRepo.NewRepository(executor),
		cancellations: cancellationRepo.NewRepository(executor),
		schedules:     scheduleRepo.NewRepository(executor),
		staff:         staffRepo.NewRepository(executor),
		rules:         rulesRepo.NewRepository(executor),
		txManager:     txmanager.NewTransactionManager(beginner, txmanager.WithErrorMapper(pgerr.Map)),
		close: func() {
			close(stopCh)
			_ = db.Close()
		},
	}, nil
}
