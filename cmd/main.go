package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/PetCare-SchedulingService/internal/api"
	autoAssignBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/auto_assign_booking"
	cancelBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_booking"
	getBookingRulesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_booking_rules"
	getCancellationReportHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_cancellation_report"
	getCandidatesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_candidates"
	getCustomerBookingsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_customer_bookings"
	getEmployeeBookingsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_employee_bookings"
	moderateCancellationHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/moderate_cancellation"
	updateBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/update_booking"
	updateBookingRulesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/update_booking_rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/config"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/cache"
	"github.com/m04kA/PetCare-SchedulingService/internal/integrations/notifications"
	ratingServiceClient "github.com/m04kA/PetCare-SchedulingService/internal/integrations/ratingservice"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/abuse"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
	rulesService "github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/selector"
	autoAssignBookingUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/auto_assign_booking"
	completeStaleBookingsUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/complete_stale_bookings"
	getAvailableSlotsUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_available_slots"
	getCancellationReportUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
	"github.com/m04kA/PetCare-SchedulingService/pkg/clock"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/metrics"
)

const configPath = "config.toml"

func main() {
	// Переменные окружения из .env (если файл есть) перекрывают config.toml
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting PetCare-SchedulingService...")
	log.Info("Configuration loaded from %s (storage=%s)", configPath, cfg.Storage.Driver)

	loc, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone %q: %v", cfg.Scheduling.Timezone, err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Кэш графиков и правил злоупотреблений
	var backend cache.Backend
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		backend = cache.NewRedisBackend(redisClient, cfg.Redis.Prefix)
		log.Info("Redis cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Cache.TTL())
	} else {
		backend = cache.NewLocalBackend(clock.Real{})
		log.Info("In-process cache enabled (ttl=%s)", cfg.Cache.TTL())
	}
	schedules := cache.NewSchedules(store.schedules, backend, cfg.Cache.TTL(), log)
	abuseRules := cache.NewAbuseRules(store.cancellations, backend, cfg.Cache.TTL(), log)

	// Уведомления
	var sink bookingsService.NotificationSink
	if cfg.RabbitMQ.Enabled {
		publisher, err := notifications.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer publisher.Close()

		sink = notifications.NewBrokerSink(publisher)
		log.Info("Notifications are published to exchange %s", cfg.RabbitMQ.Exchange)
	} else {
		sink = notifications.NewLogSink(log)
		log.Info("RabbitMQ disabled, notifications are written to the log")
	}

	watcher := config.NewWatcher(configPath, cfg, log)

	// Инициализируем сервисы
	realClock := clock.Real{}
	calculator := availability.NewCalculator(store.bookings, schedules, store.staff, loc)
	rulesSvc := rulesService.NewService(store.rules, log)
	detector := abuse.NewDetector(store.cancellations, abuseRules, store.cancellations, realClock, log)

	engineOpts := []bookingsService.Option{bookingsService.WithSettings(watcher)}
	if metricsCollector != nil {
		engineOpts = append(engineOpts, bookingsService.WithMetrics(metricsCollector))
	}
	engine := bookingsService.NewEngine(
		store.bookings,
		calculator,
		store.staff,
		rulesSvc,
		store.cancellations,
		detector,
		sink,
		store.txManager,
		realClock,
		log,
		engineOpts...,
	)

	selectorOpts := []selector.Option{selector.WithConcurrency(cfg.Scheduling.SelectorConcurrency)}
	if cfg.RatingService.Enabled {
		ratingClient := ratingServiceClient.NewClient(
			cfg.RatingService.URL,
			time.Duration(cfg.RatingService.Timeout)*time.Second,
			log,
		)
		selectorOpts = append(selectorOpts, selector.WithRatings(ratingClient))
		log.Info("Rating service client initialized (url=%s, timeout=%ds)", cfg.RatingService.URL, cfg.RatingService.Timeout)
	}
	employeeSelector := selector.NewSelector(store.staff, calculator, log, selectorOpts...)

	// Инициализируем use cases
	autoAssignBookingUseCase := autoAssignBookingUC.NewUseCase(employeeSelector, engine, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(calculator, rulesSvc, realClock, log)
	getCancellationReportUseCase := getCancellationReportUC.NewUseCase(store.bookings, log)

	var sweeperMetrics completeStaleBookingsUC.Metrics
	if metricsCollector != nil {
		sweeperMetrics = metricsCollector
	}
	sweeper := completeStaleBookingsUC.NewUseCase(store.bookings, engine, watcher, sweeperMetrics, log)

	// Инициализируем handlers
	routes := api.Routes{
		CreateBooking:       createBookingHandler.NewHandler(engine, log).Handle,
		AutoAssignBooking:   autoAssignBookingHandler.NewHandler(autoAssignBookingUseCase, log).Handle,
		GetBooking:          getBookingHandler.NewHandler(engine, log).Handle,
		UpdateBooking:       updateBookingHandler.NewHandler(engine, log).Handle,
		CancelBooking:       cancelBookingHandler.NewHandler(engine, log).Handle,
		CompleteBooking:     completeBookingHandler.NewHandler(engine, log).Handle,
		ConfirmBooking:      confirmBookingHandler.NewHandler(engine, log).Handle,
		GetCustomerBookings: getCustomerBookingsHandler.NewHandler(engine, log).Handle,
		GetEmployeeBookings: getEmployeeBookingsHandler.NewHandler(engine, loc, log).Handle,
		GetAvailableSlots:   getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log).Handle,
		GetCandidates:       getCandidatesHandler.NewHandler(employeeSelector, loc, log).Handle,
		GetBookingRules:     getBookingRulesHandler.NewHandler(rulesSvc, log).Handle,
		UpdateBookingRules:  updateBookingRulesHandler.NewHandler(rulesSvc, log).Handle,

		GetCancellationReport: getCancellationReportHandler.NewHandler(getCancellationReportUseCase, loc, log).Handle,
		ModerateCancellation:  moderateCancellationHandler.NewHandler(detector, log).Handle,
	}
	r := api.NewRouter(routes, metricsCollector, cfg.Metrics.Path)

	// Автозавершение прошедших бронирований по расписанию
	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.Sweeper.Schedule, func() {
		if _, err := sweeper.RunOnce(ctx, realClock.Now()); err != nil {
			log.Error("Sweeper run failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Invalid sweeper schedule %q: %v", cfg.Sweeper.Schedule, err)
	}
	scheduler.Start()
	log.Info("Sweeper scheduled (%s, enabled=%t)", cfg.Sweeper.Schedule, cfg.Sweeper.Enabled)

	// Перечитывание конфигурации без рестарта
	go watcher.Run(ctx)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прогона sweeper'а и останавливаем фоновые задачи
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("Sweeper did not finish before shutdown timeout")
	}
	stop()

	log.Info("Server stopped gracefully")
}
