package registryservice

// Hospital модель госпиталя из RegistryService
type Hospital struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA имя зоны, может быть пустым
	IsActive bool   `json:"is_active"`
}

// Doctor модель врача из RegistryService
type Doctor struct {
	ID                  string `json:"id"`
	HospitalID          string `json:"hospital_id"`
	FullName            string `json:"full_name"`
	Specialization      string `json:"specialization"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"` // 0 = использовать дефолт
	BufferMinutes       int    `json:"buffer_minutes"`        // пауза между приёмами
	IsActive            bool   `json:"is_active"`
}

// Patient модель пациента из RegistryService
type Patient struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	HospitalID   string `json:"hospital_id"`
	FullName     string `json:"full_name"`
	ContactEmail string `json:"contact_email"`
}

// ErrorResponse модель ошибки от RegistryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
