package notifyservice

// AppointmentNotice данные уведомления о записи
// Передаётся NotifyService как есть; рендеринг шаблонов и транспорт
// (email/sms) - ответственность NotifyService
type AppointmentNotice struct {
	AppointmentID     string  `json:"appointment_id"`
	AppointmentNumber string  `json:"appointment_number"`
	HospitalID        string  `json:"hospital_id"`
	DoctorID          string  `json:"doctor_id"`
	PatientID         string  `json:"patient_id"`
	PatientEmail      string  `json:"patient_email"`
	Date              string  `json:"date"`       // YYYY-MM-DD, локальная дата госпиталя
	StartTime         string  `json:"start_time"` // HH:MM, локальное время госпиталя
	Timezone          string  `json:"timezone"`
	Reason            *string `json:"reason,omitempty"` // причина (для отмены)
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
