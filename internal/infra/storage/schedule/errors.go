package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrWorkWindowNotFound у сотрудника нет рабочего окна на этот день
	ErrWorkWindowNotFound = fmt.Errorf("schedule.repository: %w", domain.ErrWorkWindowNotFound)

	// ErrLocationHoursNotFound для точки не заведены часы работы на этот день
	ErrLocationHoursNotFound = fmt.Errorf("schedule.repository: %w", domain.ErrLocationHoursNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
