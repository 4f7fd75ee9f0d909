package send_appointment_reminder

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder"
)

const (
	msgAppointmentNotFound = "запись не найдена"
	msgAlreadySent         = "напоминание уже отправлено"
	msgNotConfirmed        = "запись не подтверждена"
	msgDispatchFailed      = "не удалось отправить напоминание"
)

type Handler struct {
	service ReminderService
	logger  Logger
}

func NewHandler(service ReminderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reminder
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	err := h.service.SendForAppointment(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reminder - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, reminder.ErrAlreadySent):
			h.logger.Warn("POST /appointments/{id}/reminder - Already sent: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadySent)

		case errors.Is(err, reminder.ErrNotConfirmed):
			h.logger.Warn("POST /appointments/{id}/reminder - Not confirmed: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgNotConfirmed)

		case errors.Is(err, reminder.ErrDispatchFailed):
			h.logger.Error("POST /appointments/{id}/reminder - Dispatch failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDispatchFailed)

		default:
			h.logger.Error("POST /appointments/{id}/reminder - Failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reminder - Reminder sent: id=%s", appointmentID)
	w.WriteHeader(http.StatusNoContent)
}
