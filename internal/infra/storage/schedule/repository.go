package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий шаблонов недельного расписания врачей
// Шаблоны создаются и изменяются внешним сервисом управления расписаниями,
// движок бронирования их только читает
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctorAndDay получает активный шаблон врача на день недели (0-6)
func (r *Repository) GetByDoctorAndDay(ctx context.Context, doctorID string, dayOfWeek int) (*domain.DoctorSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectSchedules().
		Where(squirrel.Eq{
			"doctor_id":   doctorID,
			"day_of_week": dayOfWeek,
			"is_active":   true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorAndDay - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	sched, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorAndDay - scan schedule: %w", ErrScanRow, err)
	}

	return sched, nil
}

func selectSchedules() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"doctor_id",
		"day_of_week",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"is_active",
		"max_appointments",
		"created_at",
		"updated_at",
	).From("doctor_schedules")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.DoctorSchedule, error) {
	var sched domain.DoctorSchedule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sched.ID,
		&sched.DoctorID,
		&sched.DayOfWeek,
		&sched.StartTime,
		&sched.EndTime,
		&sched.BreakStart,
		&sched.BreakEnd,
		&sched.IsActive,
		&sched.MaxAppointments,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return &sched, nil
}
