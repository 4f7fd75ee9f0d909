package cancel_appointment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgAppointmentNotFound = "запись не найдена"
	msgPatientNotFound     = "пациент не найден"
	msgAccessDenied        = "нет прав на отмену этой записи"
	msgCannotCancel        = "запись уже нельзя отменить"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]
	userID := middleware.GetUserID(r.Context())

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Cancel(r.Context(), appointmentID, &models.CancelAppointmentRequest{
		UserID:             userID,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrPatientNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Patient not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: id=%s, user_id=%s", appointmentID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: id=%s, user_id=%s", appointmentID, userID)
	w.WriteHeader(http.StatusNoContent)
}
