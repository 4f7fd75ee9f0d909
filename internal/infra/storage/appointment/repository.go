package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

const appointmentColumns = "id, hospital_id, doctor_id, patient_id, appointment_number, " +
	"appointment_date, start_time, end_time, appointment_type, status, " +
	"cancellation_reason, cancelled_by, cancelled_at, rescheduled_from, " +
	"reminder_sent, reminder_sent_at, booked_by, created_at, updated_at"

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// ID генерируется здесь; created_at/updated_at возвращает БД
// Если в контексте есть активная транзакция, insert выполняется внутри неё -
// так бронирование фиксируется атомарно с проверкой пересечений
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"hospital_id",
			"doctor_id",
			"patient_id",
			"appointment_number",
			"appointment_date",
			"start_time",
			"end_time",
			"appointment_type",
			"status",
			"rescheduled_from",
			"booked_by",
		).
		Values(
			appt.ID,
			appt.HospitalID,
			appt.DoctorID,
			appt.PatientID,
			appt.AppointmentNumber,
			appt.AppointmentDate,
			appt.StartTime,
			appt.EndTime,
			appt.Type,
			appt.Status,
			appt.RescheduledFrom,
			appt.BookedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectAppointments().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// GetByDoctorForInterval получает записи врача с указанными статусами,
// пересекающиеся с полуоткрытым интервалом [from, to), отсортированные по началу
//
// Условие выборки - сам предикат пересечения (start_time < to AND
// end_time > from), а не попадание start_time в интервал: запись,
// созданная в другой таймзоне, может начинаться до локальных суток
// нового бронирования и при этом пересекаться с ним
//
// Внутри транзакции выборка блокируется FOR UPDATE: это замок, на котором
// держится проверка пересечений при бронировании - из двух конкурентных
// бронирований одного врача ровно одно увидит (и заблокирует) строки первым
func (r *Repository) GetByDoctorForInterval(
	ctx context.Context,
	doctorID string,
	from, to time.Time,
	statuses []domain.AppointmentStatus,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := selectAppointments().
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		Where(squirrel.Eq{"status": statusStrings}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorForInterval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorForInterval - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListWithFilter получает записи с гибкой фильтрацией
// Используется выборками по врачу и по пациенту
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectAppointments()

	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.HospitalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"hospital_id": *filter.HospitalID})
	}
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.StartTo})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if filter.LiveOnly {
		liveStatusStrings := make([]string, len(domain.LiveStatuses))
		for i, s := range domain.LiveStatuses {
			liveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": liveStatusStrings})
	}

	query, args, err := selectBuilder.
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
// Проверка допустимости перехода - ответственность вызывающего сервиса
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// Cancel отменяет запись с фиксацией причины, актора и момента отмены
func (r *Repository) Cancel(ctx context.Context, id string, reason *string, cancelledBy string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// GetForReminder получает подтверждённые записи без отправленного напоминания,
// начинающиеся в интервале [from, to), отсортированные по началу
// hospitalID == nil означает все госпитали (ручной запуск рассылки)
func (r *Repository) GetForReminder(ctx context.Context, hospitalID *string, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectAppointments().
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{"reminder_sent": false}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC")

	if hospitalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"hospital_id": *hospitalID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetForReminder - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// CountForReminder считает подтверждённые записи в интервале [from, to)
// Используется сводкой предстоящих напоминаний
func (r *Repository) CountForReminder(ctx context.Context, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountForReminder - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountForReminder - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// MarkReminderSent помечает напоминание отправленным
// Флаг ставится строго после успешной отправки (см. internal/service/reminder)
func (r *Repository) MarkReminderSent(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminder_sent", true).
		Set("reminder_sent_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkReminderSent")
}

// NextSequence атомарно выдаёт следующий порядковый номер записи
// за календарный день day в госпитале hospitalID
//
// Upsert по счётчику закрывает гонку схемы "посчитал и вставил": два
// конкурентных бронирования получают разные значения seq, потому что
// второй UPDATE ждёт блокировку строки счётчика первого
func (r *Repository) NextSequence(ctx context.Context, hospitalID string, day time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_counters").
		Columns("hospital_id", "day", "seq").
		Values(hospitalID, day.Format(domain.DateFormat), 1).
		Suffix("ON CONFLICT (hospital_id, day) DO UPDATE SET seq = appointment_counters.seq + 1 RETURNING seq").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: NextSequence - build upsert query: %v", ErrBuildQuery, err)
	}

	var seq int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: NextSequence - execute upsert: %w", ErrExecQuery, err)
	}

	return seq, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func selectAppointments() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"hospital_id",
		"doctor_id",
		"patient_id",
		"appointment_number",
		"appointment_date",
		"start_time",
		"end_time",
		"appointment_type",
		"status",
		"cancellation_reason",
		"cancelled_by",
		"cancelled_at",
		"rescheduled_from",
		"reminder_sent",
		"reminder_sent_at",
		"booked_by",
		"created_at",
		"updated_at",
	).From("appointments")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.HospitalID,
		&appt.DoctorID,
		&appt.PatientID,
		&appt.AppointmentNumber,
		&appt.AppointmentDate,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Type,
		&appt.Status,
		&appt.CancellationReason,
		&appt.CancelledBy,
		&appt.CancelledAt,
		&appt.RescheduledFrom,
		&appt.ReminderSent,
		&appt.ReminderSentAt,
		&appt.BookedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	appt.StartTime = appt.StartTime.UTC()
	appt.EndTime = appt.EndTime.UTC()

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
