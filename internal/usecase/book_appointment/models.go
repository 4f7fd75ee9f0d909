package book_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID          string           // ID пользователя, создающего запись
	PatientID       *string          // Явный ID пациента (для переносов); по умолчанию пациент ищется по UserID
	DoctorID        string           // ID врача
	HospitalID      string           // ID госпиталя
	Date            time.Time        // Локальная календарная дата приёма
	StartTime       types.TimeString // Локальное время начала
	EndTime         types.TimeString // Локальное время конца
	Type            *string          // Тип приёма (по умолчанию consultation)
	Timezone        *string          // Явная таймзона запроса (опционально)
	RescheduledFrom *string          // ID исходной записи при переносе
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Timezone    string // Эффективная таймзона бронирования
}
