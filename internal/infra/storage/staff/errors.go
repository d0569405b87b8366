package staff

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = fmt.Errorf("staff.repository: %w", domain.ErrEmployeeNotFound)

	// ErrLocationServiceNotFound услуга не оказывается в точке
	ErrLocationServiceNotFound = fmt.Errorf("staff.repository: %w", domain.ErrLocationServiceNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staff.repository: failed to scan row")
)
