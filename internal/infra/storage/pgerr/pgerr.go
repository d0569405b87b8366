package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// ErrUniqueViolation нарушение уникального индекса (например, код бронирования)
var ErrUniqueViolation = fmt.Errorf("%w: unique violation", domain.ErrStore)

// SQLSTATE коды PostgreSQL, которые означают проигранную гонку
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeExclusionViolation   = "23P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
	codeQueryCanceled        = "57014"
	codeAdminShutdown        = "57P01"
	codeCrashShutdown        = "57P02"
	codeCannotConnectNow     = "57P03"
)

// Classify возвращает доменную категорию ошибки драйвера:
// domain.ErrConflict, domain.ErrTransientStore, ErrUniqueViolation или domain.ErrStore
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeExclusionViolation, codeLockNotAvailable:
			return domain.ErrConflict
		case codeUniqueViolation:
			return ErrUniqueViolation
		case codeQueryCanceled, codeAdminShutdown, codeCrashShutdown, codeCannotConnectNow:
			return domain.ErrTransientStore
		}
		switch pqErr.Code.Class() {
		case "08", "53": // connection exception, insufficient resources
			return domain.ErrTransientStore
		}
		return domain.ErrStore
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTransientStore
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.ErrTransientStore
	}

	return domain.ErrStore
}

// Map оборачивает ошибку ее категорией; уже классифицированные ошибки возвращаются как есть.
// Используется как ErrorMapper для txmanager (ошибки begin/commit)
func Map(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrTransientStore) || errors.Is(err, domain.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %v", Classify(err), err)
}

// IsUniqueViolation возвращает true для нарушения уникального индекса
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeUniqueViolation
	}
	return errors.Is(err, ErrUniqueViolation)
}
