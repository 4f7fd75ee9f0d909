package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается при нарушении инвариантов шаблона расписания
	ErrInvalidSchedule = errors.New("invalid schedule template")
)

// DoctorSchedule represents one weekday of a doctor's weekly availability template
// Templates are managed by external schedule administration and are read-only
// to the scheduling engine
type DoctorSchedule struct {
	ID        string
	DoctorID  string
	DayOfWeek int // 0 = Sunday ... 6 = Saturday
	StartTime types.TimeString
	EndTime   types.TimeString

	BreakStart *types.TimeString
	BreakEnd   *types.TimeString

	IsActive        bool
	MaxAppointments *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBreak returns true if the template defines a break window
func (s *DoctorSchedule) HasBreak() bool {
	return s.BreakStart != nil && s.BreakEnd != nil
}

// Validate проверяет инварианты шаблона:
// end > start; при наличии перерыва start <= breakStart < breakEnd <= end
func (s *DoctorSchedule) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be in [0,6]", ErrInvalidSchedule)
	}

	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidSchedule, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidSchedule, err)
	}

	if !s.EndTime.IsAfter(s.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidSchedule)
	}

	if s.BreakStart == nil && s.BreakEnd == nil {
		return nil
	}
	if s.BreakStart == nil || s.BreakEnd == nil {
		return fmt.Errorf("%w: break window must have both bounds", ErrInvalidSchedule)
	}

	if err := s.BreakStart.Validate(); err != nil {
		return fmt.Errorf("%w: breakStart: %v", ErrInvalidSchedule, err)
	}
	if err := s.BreakEnd.Validate(); err != nil {
		return fmt.Errorf("%w: breakEnd: %v", ErrInvalidSchedule, err)
	}

	if s.BreakStart.IsBefore(s.StartTime) ||
		!s.BreakEnd.IsAfter(*s.BreakStart) ||
		s.BreakEnd.IsAfter(s.EndTime) {
		return fmt.Errorf("%w: break window must satisfy start <= breakStart < breakEnd <= end", ErrInvalidSchedule)
	}

	return nil
}
