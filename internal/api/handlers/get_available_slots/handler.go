package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/HMS-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate      = "параметр date обязателен, формат YYYY-MM-DD"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDoctorNotFound   = "врач не найден"
	msgHospitalNotFound = "госпиталь не найден"
	msgInvalidTimezone  = "неизвестная таймзона"
	msgInvalidInput     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/available-slots?date=YYYY-MM-DD&timezone=...&hospitalId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/available-slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailableSlots.Request{
		DoctorID: doctorID,
		Date:     date,
	}
	if hospitalID := r.URL.Query().Get("hospitalId"); hospitalID != "" {
		req.HospitalID = &hospitalID
	}
	if tz := r.URL.Query().Get("timezone"); tz != "" {
		req.Timezone = &tz
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrDoctorNotFound):
			h.logger.Warn("GET /doctors/{id}/available-slots - Doctor not found: doctor_id=%s", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, getAvailableSlots.ErrHospitalNotFound):
			h.logger.Warn("GET /doctors/{id}/available-slots - Hospital not found: doctor_id=%s", doctorID)
			handlers.RespondNotFound(w, msgHospitalNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidTimezone):
			h.logger.Warn("GET /doctors/{id}/available-slots - Invalid timezone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /doctors/{id}/available-slots - Failed: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/available-slots - %d slots for doctor_id=%s, date=%s",
		len(result.Slots), doctorID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
