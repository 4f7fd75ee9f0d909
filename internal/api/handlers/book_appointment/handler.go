package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	bookAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotConflict       = "интервал пересекается с существующей записью врача"
	msgDoctorNotFound     = "врач не найден"
	msgPatientNotFound    = "пациент не найден"
	msgHospitalNotFound   = "госпиталь не найден"
	msgInvalidTimezone    = "неизвестная таймзона"
	msgInvalidInput       = "некорректные данные записи"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: user_id=%s, doctor_id=%s", userID, req.DoctorID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, bookAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%s", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, bookAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, bookAppointment.ErrHospitalNotFound):
			h.logger.Warn("POST /appointments - Hospital not found: hospital_id=%s", req.HospitalID)
			handlers.RespondNotFound(w, msgHospitalNotFound)

		case errors.Is(err, bookAppointment.ErrInvalidTimezone):
			h.logger.Warn("POST /appointments - Invalid timezone: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: user_id=%s, doctor_id=%s, error=%v",
				userID, req.DoctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%s, number=%s, user_id=%s",
		result.Appointment.ID, result.Appointment.AppointmentNumber, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
