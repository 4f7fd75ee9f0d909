package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time value is out of range")
)

// TimeString время в формате "HH:MM" (настенные часы, без даты и таймзоны)
// Используется для хранения времени слотов и расписаний
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат "HH:MM"
// Допускается значение "24:00" как верхняя граница суток
func (t TimeString) Validate() error {
	if len(t) != 5 || t[2] != ':' {
		return ErrInvalidTimeString
	}

	h, m, ok := t.parts()
	if !ok {
		return ErrInvalidTimeString
	}

	if h > 24 || m > 59 || (h == 24 && m != 0) {
		return ErrInvalidTimeString
	}

	return nil
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	h, m, _ := t.parts()
	return h*60 + m, nil
}

// AddMinutes возвращает новое время, сдвинутое на minutes минут вперёд
// Результат не может выходить за границу суток (максимум "24:00")
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.Minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total > 24*60 {
		return "", ErrTimeOutOfRange
	}

	return FromMinutes(total), nil
}

// IsBefore возвращает true, если t строго раньше other
// Сравнение лексикографическое, корректно для формата с ведущими нулями
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

// FromMinutes создает TimeString из количества минут с начала суток
func FromMinutes(minutes int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// Value реализует driver.Valuer для сохранения в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Postgres возвращает колонки типа time как "HH:MM:SS", секунды отбрасываются
func (t *TimeString) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}

	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}

	if len(s) > 5 {
		s = s[:5]
	}
	*t = TimeString(s)
	return t.Validate()
}

func (t TimeString) parts() (hours, minutes int, ok bool) {
	parse := func(s string) (int, bool) {
		n := 0
		for _, c := range s {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + int(c-'0')
		}
		return n, true
	}

	h, okH := parse(string(t[:2]))
	m, okM := parse(string(t[3:]))
	return h, m, okH && okM
}
