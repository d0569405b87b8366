package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const (
	defaultCodeAttempts        = 10
	defaultNotificationTimeout = 5 * time.Second
)

// Settings настройки движка, которые можно менять без перезапуска
type Settings struct {
	// RequireConfirmation новые бронирования создаются в статусе pending_confirmation,
	// даже если правила точки этого не требуют
	RequireConfirmation bool
	// CodeAttempts число попыток подобрать свободный код бронирования
	CodeAttempts int
	// NotificationTimeout ограничение на отправку уведомлений после коммита
	NotificationTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.CodeAttempts <= 0 {
		s.CodeAttempts = defaultCodeAttempts
	}
	if s.NotificationTimeout <= 0 {
		s.NotificationTimeout = defaultNotificationTimeout
	}
	return s
}

type staticSettings Settings

func (s staticSettings) BookingSettings() Settings {
	return Settings(s)
}

// Option настройка Engine
type Option func(*Engine)

// WithMetrics подключает доменные метрики
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithSettings задает источник настроек; по умолчанию используются значения по умолчанию
func WithSettings(p SettingsProvider) Option {
	return func(e *Engine) {
		e.settings = p
	}
}

// Engine движок бронирований: все изменения бронирований проходят через него.
// Проверки и запись выполняются в одной сериализуемой транзакции под блокировкой сотрудника,
// уведомления отправляются только после коммита
type Engine struct {
	bookings      BookingStore
	availability  AvailabilityChecker
	staff         EmployeeDirectory
	rules         RulesResolver
	cancellations CancellationStore
	abuse         AbuseEvaluator
	sink          NotificationSink
	txManager     TransactionManager
	clock         Clock
	settings      SettingsProvider
	metrics       Metrics
	logger        Logger
}

// NewEngine создает движок бронирований
func NewEngine(
	bookings BookingStore,
	availability AvailabilityChecker,
	staff EmployeeDirectory,
	rules RulesResolver,
	cancellations CancellationStore,
	abuse AbuseEvaluator,
	sink NotificationSink,
	txManager TransactionManager,
	clock Clock,
	logger Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		bookings:      bookings,
		availability:  availability,
		staff:         staff,
		rules:         rules,
		cancellations: cancellations,
		abuse:         abuse,
		sink:          sink,
		txManager:     txManager,
		clock:         clock,
		settings:      staticSettings{},
		metrics:       noopMetrics{},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = noopMetrics{}
	}
	return e
}

func (e *Engine) currentSettings() Settings {
	return e.settings.BookingSettings().withDefaults()
}

// outbox уведомления, накопленные в транзакции
type outbox []domain.Notification

func (o *outbox) add(b *domain.Booking, to domain.Recipient, template string, at time.Time) *domain.Notification {
	*o = append(*o, domain.BookingNotification(b, to, template, at))
	return &(*o)[len(*o)-1]
}

// publish отправляет уведомления после коммита. Ошибки только логируются:
// бронирование уже зафиксировано
func (e *Engine) publish(ctx context.Context, op string, out outbox) {
	if len(out) == 0 || e.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.currentSettings().NotificationTimeout)
	defer cancel()

	for _, n := range out {
		if err := e.sink.Notify(ctx, n); err != nil {
			e.logger.Warn("%s: failed to send %s to %s %d: %v", op, n.TemplateKey, n.Recipient.Kind, n.Recipient.ID, err)
		}
	}
}

// fail логирует ошибку операции с уровнем по ее типу и учитывает конфликты в метриках
func (e *Engine) fail(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		e.metrics.BookingConflict(op)
		e.logger.Warn("%s: conflict: %v", op, err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		e.logger.Warn("%s: rejected: %v", op, err)
	default:
		e.logger.Error("%s: %v", op, err)
	}
	return err
}

func customerOf(b *domain.Booking) domain.Recipient {
	return domain.Recipient{Kind: domain.RecipientCustomer, ID: b.CustomerID}
}

func employeeOf(b *domain.Booking) domain.Recipient {
	return domain.Recipient{Kind: domain.RecipientEmployee, ID: b.EmployeeID}
}

type noopMetrics struct{}

func (noopMetrics) BookingCreated(string)         {}
func (noopMetrics) BookingConflict(string)        {}
func (noopMetrics) BookingCancelled(string, bool) {}
func (noopMetrics) BookingCompleted(string)       {}
