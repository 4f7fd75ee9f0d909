package get_patient_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidStatus = "недопустимый статус"
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

// Handle GET /api/v1/patients/{patientId}/appointments?status=...&liveOnly=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]
	query := r.URL.Query()

	req := &models.ListByPatientRequest{
		PatientID: patientID,
		LiveOnly:  query.Get("liveOnly") == "true",
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListByPatient(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidStatus):
			h.logger.Warn("GET /patients/{id}/appointments - Invalid status: patient_id=%s", patientID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /patients/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /patients/{id}/appointments - Failed: patient_id=%s, error=%v", patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{id}/appointments - %d appointments for patient_id=%s",
		len(result.Appointments), patientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
