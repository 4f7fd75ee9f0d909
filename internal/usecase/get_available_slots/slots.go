package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/timezone"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// generateSlotsFromTemplate разворачивает шаблон расписания в список свободных
// слотов на дату date. Чистая функция: результат полностью определён
// аргументами, без скрытого состояния - это делает расчёт тривиально
// тестируемым и безопасным для параллельных вызовов.
//
// Правила фильтрации:
//   - слот целиком помещается в рабочий интервал шаблона
//   - интервал слота не пересекает окно перерыва
//   - интервал слота не пересекает ни одну из existing записей [start, end)
//   - момент начала слота строго позже now
//
// Пересечение всюду считается по полуоткрытым интервалам: касание границ
// пересечением не является
func generateSlotsFromTemplate(
	sched *domain.DoctorSchedule,
	date time.Time,
	durationMinutes int,
	stepMinutes int,
	existing []*domain.Appointment,
	zone string,
	now time.Time,
) ([]types.TimeString, error) {
	// Дневной лимит: если он выбран, свободных слотов нет
	if sched.MaxAppointments != nil && len(existing) >= *sched.MaxAppointments {
		return []types.TimeString{}, nil
	}

	startMin, err := sched.StartTime.Minutes()
	if err != nil {
		return nil, err
	}
	endMin, err := sched.EndTime.Minutes()
	if err != nil {
		return nil, err
	}

	var breakStartMin, breakEndMin int
	hasBreak := sched.HasBreak()
	if hasBreak {
		if breakStartMin, err = sched.BreakStart.Minutes(); err != nil {
			return nil, err
		}
		if breakEndMin, err = sched.BreakEnd.Minutes(); err != nil {
			return nil, err
		}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := make([]types.TimeString, 0)

	for m := startMin; m+durationMinutes <= endMin; m += stepMinutes {
		// Пересечение с окном перерыва
		if hasBreak && m < breakEndMin && m+durationMinutes > breakStartMin {
			continue
		}

		slotStart := slotInstant(date, m, zone)
		slotEnd := slotStart.Add(duration)

		// Слот должен начинаться строго в будущем
		if !slotStart.After(now) {
			continue
		}

		if overlapsAny(slotStart, slotEnd, existing) {
			continue
		}

		slots = append(slots, types.FromMinutes(m))
	}

	return slots, nil
}

// slotInstant переводит пару (календарная дата, минуты от полуночи)
// в момент UTC через настенное время зоны
func slotInstant(date time.Time, minutes int, zone string) time.Time {
	wall := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, time.UTC)
	return timezone.ToUTC(wall, zone)
}

func overlapsAny(start, end time.Time, existing []*domain.Appointment) bool {
	for _, appt := range existing {
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
