package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

func validSchedule() *DoctorSchedule {
	return &DoctorSchedule{
		ID:        "sched-1",
		DoctorID:  "doctor-1",
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:00",
		IsActive:  true,
	}
}

func TestDoctorScheduleValidate(t *testing.T) {
	t.Run("valid without break", func(t *testing.T) {
		assert.NoError(t, validSchedule().Validate())
	})

	t.Run("valid with break", func(t *testing.T) {
		s := validSchedule()
		s.BreakStart = ptr.Ptr(types.TimeString("12:00"))
		s.BreakEnd = ptr.Ptr(types.TimeString("13:00"))
		assert.NoError(t, s.Validate())
	})

	t.Run("break matching working bounds", func(t *testing.T) {
		s := validSchedule()
		s.BreakStart = ptr.Ptr(types.TimeString("09:00"))
		s.BreakEnd = ptr.Ptr(types.TimeString("17:00"))
		assert.NoError(t, s.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*DoctorSchedule)
	}{
		{"day of week below range", func(s *DoctorSchedule) { s.DayOfWeek = -1 }},
		{"day of week above range", func(s *DoctorSchedule) { s.DayOfWeek = 7 }},
		{"malformed start", func(s *DoctorSchedule) { s.StartTime = "9am" }},
		{"malformed end", func(s *DoctorSchedule) { s.EndTime = "17-00" }},
		{"end equals start", func(s *DoctorSchedule) { s.EndTime = s.StartTime }},
		{"end before start", func(s *DoctorSchedule) { s.StartTime = "17:00"; s.EndTime = "09:00" }},
		{"break start without end", func(s *DoctorSchedule) {
			s.BreakStart = ptr.Ptr(types.TimeString("12:00"))
		}},
		{"break end without start", func(s *DoctorSchedule) {
			s.BreakEnd = ptr.Ptr(types.TimeString("13:00"))
		}},
		{"break before working hours", func(s *DoctorSchedule) {
			s.BreakStart = ptr.Ptr(types.TimeString("08:00"))
			s.BreakEnd = ptr.Ptr(types.TimeString("08:30"))
		}},
		{"break past working hours", func(s *DoctorSchedule) {
			s.BreakStart = ptr.Ptr(types.TimeString("16:30"))
			s.BreakEnd = ptr.Ptr(types.TimeString("17:30"))
		}},
		{"empty break window", func(s *DoctorSchedule) {
			s.BreakStart = ptr.Ptr(types.TimeString("12:00"))
			s.BreakEnd = ptr.Ptr(types.TimeString("12:00"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)
		})
	}
}

func TestDoctorScheduleHasBreak(t *testing.T) {
	s := validSchedule()
	assert.False(t, s.HasBreak())

	s.BreakStart = ptr.Ptr(types.TimeString("12:00"))
	assert.False(t, s.HasBreak())

	s.BreakEnd = ptr.Ptr(types.TimeString("13:00"))
	assert.True(t, s.HasBreak())
}
