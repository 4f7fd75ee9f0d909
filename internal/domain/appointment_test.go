package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to rescheduled", StatusPending, StatusRescheduled, true},
		{"pending to completed is forbidden", StatusPending, StatusCompleted, false},
		{"pending to in_progress is forbidden", StatusPending, StatusInProgress, false},
		{"confirmed to in_progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed is forbidden", StatusConfirmed, StatusCompleted, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to cancelled is forbidden", StatusInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusConfirmed, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"no_show is terminal", StatusNoShow, StatusConfirmed, false},
		{"rescheduled is terminal", StatusRescheduled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidAppointmentType(t *testing.T) {
	for _, typ := range []AppointmentType{
		TypeConsultation, TypeFollowUp, TypeEmergency,
		TypeRoutineCheckup, TypeVaccination, TypeTest,
	} {
		assert.True(t, IsValidAppointmentType(typ), string(typ))
	}

	assert.False(t, IsValidAppointmentType("surgery"))
	assert.False(t, IsValidAppointmentType(""))
}

func TestAppointmentOverlaps(t *testing.T) {
	appt := &Appointment{
		StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
	}

	hhmm := func(h, m int) time.Time {
		return time.Date(2026, 9, 7, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical interval", hhmm(10, 0), hhmm(10, 30), true},
		{"contained", hhmm(10, 10), hhmm(10, 20), true},
		{"overlap at start", hhmm(9, 45), hhmm(10, 15), true},
		{"overlap at end", hhmm(10, 15), hhmm(10, 45), true},
		{"touching before does not overlap", hhmm(9, 30), hhmm(10, 0), false},
		{"touching after does not overlap", hhmm(10, 30), hhmm(11, 0), false},
		{"disjoint before", hhmm(8, 0), hhmm(9, 0), false},
		{"disjoint after", hhmm(11, 0), hhmm(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appt.Overlaps(tt.start, tt.end))
		})
	}
}

func TestAppointmentCanBeCancelled(t *testing.T) {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		status AppointmentStatus
		start  time.Time
		want   bool
	}{
		{"pending future", StatusPending, future, true},
		{"confirmed future", StatusConfirmed, future, true},
		{"pending past", StatusPending, past, false},
		{"confirmed at now", StatusConfirmed, now, false},
		{"in_progress", StatusInProgress, future, false},
		{"completed", StatusCompleted, future, false},
		{"cancelled", StatusCancelled, future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &Appointment{Status: tt.status, StartTime: tt.start}
			assert.Equal(t, tt.want, appt.CanBeCancelled(now))
		})
	}
}

func TestAppointmentIsLive(t *testing.T) {
	live := []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress}
	dead := []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled}

	for _, s := range live {
		assert.True(t, (&Appointment{Status: s}).IsLive(), string(s))
	}
	for _, s := range dead {
		assert.False(t, (&Appointment{Status: s}).IsLive(), string(s))
	}
}

func TestAppointmentDurationMinutes(t *testing.T) {
	appt := &Appointment{
		StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 10, 45, 0, 0, time.UTC),
	}
	assert.Equal(t, 45, appt.DurationMinutes())
}
