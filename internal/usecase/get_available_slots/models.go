package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	DoctorID   string    // ID врача
	HospitalID *string   // ID госпиталя (опционально, источник дефолтной зоны)
	Date       time.Time // Локальная календарная дата приёма
	Timezone   *string   // Явная таймзона запроса (опционально)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	DoctorID string             // ID врача
	Date     time.Time          // Дата, на которую запрашивались слоты
	Timezone string             // Эффективная таймзона расчёта
	Slots    []types.TimeString // Времена начала свободных слотов, по возрастанию
}
