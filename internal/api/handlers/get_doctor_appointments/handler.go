package get_doctor_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidStatus = "недопустимый статус"
	msgInvalidPeriod = "некорректный формат периода, ожидается RFC 3339"
	msgInvalidInput  = "некорректные параметры запроса"
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

// Handle GET /api/v1/doctors/{doctorId}/appointments?status=...&from=...&to=...&liveOnly=true
// Границы периода фильтруют по началу приёма: from включительно, to исключительно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["doctorId"]
	query := r.URL.Query()

	req := &models.ListByDoctorRequest{
		DoctorID: doctorID,
		LiveOnly: query.Get("liveOnly") == "true",
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.StartFrom = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.StartTo = &to
	}

	result, err := h.service.ListByDoctor(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidStatus):
			h.logger.Warn("GET /doctors/{id}/appointments - Invalid status: doctor_id=%s", doctorID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /doctors/{id}/appointments - Failed: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/appointments - %d appointments for doctor_id=%s",
		len(result.Appointments), doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
