package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	bookAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgAppointmentNotFound = "запись не найдена"
	msgAccessDenied        = "нет прав на перенос этой записи"
	msgCannotReschedule    = "запись нельзя перенести"
	msgSlotConflict        = "новый интервал пересекается с существующей записью врача"
	msgInvalidTimezone     = "неизвестная таймзона"
	msgInvalidInput        = "некорректные данные переноса"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]
	userID := middleware.GetUserID(r.Context())

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.Reschedule(r.Context(), appointmentID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/reschedule - Access denied: id=%s, user_id=%s", appointmentID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrCannotReschedule):
			h.logger.Warn("POST /appointments/{id}/reschedule - Cannot reschedule: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotReschedule)

		case errors.Is(err, bookAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot conflict: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, bookAppointment.ErrInvalidTimezone):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid timezone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, bookAppointment.ErrInvalidInput), errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment id=%s rescheduled to id=%s by user_id=%s",
		appointmentID, result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
