package rules

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrRulesNotFound возвращается, когда правила не найдены
	ErrRulesNotFound = fmt.Errorf("rules.repository: %w", domain.ErrRulesNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")
)
