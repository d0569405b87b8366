package cancellation

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrRecordNotFound возвращается, когда запись об отмене не найдена
	ErrRecordNotFound = fmt.Errorf("cancellation.repository: %w", domain.ErrCancellationNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("cancellation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("cancellation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("cancellation.repository: failed to scan row")
)
