package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const layout = "15:04"

// TimeString время суток в формате HH:MM (без даты и часового пояса)
type TimeString string

// NewTimeStringFromString разбирает строку HH:MM (секунды, если есть, отбрасываются)
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) == len("15:04:05") {
		s = s[:len(layout)]
	}
	if _, ok := parseMinutes(s); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// NewTimeString берет время суток из момента t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layout))
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(t))
	return err
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с полуночи
// Значение "24:00" допустимо и обозначает конец суток
func (t TimeString) Minutes() int {
	m, _ := parseMinutes(string(t))
	return m
}

func parseMinutes(s string) (int, bool) {
	if len(s) != len(layout) || s[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, false
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// AddMinutes сдвигает время на n минут; переход через полночь считается ошибкой
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	total := t.Minutes() + n
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %s%+d min is out of day", ErrInvalidTimeString, t, n)
	}
	if total == 24*60 {
		return "24:00", nil
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// On возвращает момент времени t в день date по часам пояса date.
// В дни перехода на летнее/зимнее время сдвигается только стрелка, а не длительность от полуночи;
// "24:00" означает полночь следующего дня
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	minutes := t.Minutes()
	if minutes == 24*60 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, date.Location())
	}
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, date.Location())
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Scan реализует sql.Scanner для колонок TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return string(t), nil
}
