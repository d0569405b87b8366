package complete_stale_bookings

import "github.com/m04kA/PetCare-SchedulingService/internal/domain"

const (
	DefaultLookbackDays = 7
	DefaultOutcome      = domain.OutcomeCompleted
)

// Settings настройки автозавершения
type Settings struct {
	Enabled       bool
	LookbackDays  int
	TargetOutcome domain.CompletionOutcome
	// MaxPerSecond ограничивает частоту завершений; 0 - без ограничения
	MaxPerSecond float64
}

func (s Settings) withDefaults() Settings {
	if s.LookbackDays <= 0 {
		s.LookbackDays = DefaultLookbackDays
	}
	if s.TargetOutcome == "" {
		s.TargetOutcome = DefaultOutcome
	}
	return s
}

// Result итог одного прогона
type Result struct {
	Selected  int
	Completed int
	Failed    int
}
