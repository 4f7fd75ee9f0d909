package run_reminder_sweep

import (
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder/models"
)

const (
	msgInvalidMode = "недопустимый режим запуска, ожидается manual или scheduled"
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

// Handle POST /api/v1/reminders/run?mode=manual|scheduled
// По умолчанию ручной запуск: фильтр локального часа не применяется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	mode := models.ModeManual
	switch r.URL.Query().Get("mode") {
	case "", string(models.ModeManual):
	case string(models.ModeScheduled):
		mode = models.ModeScheduled
	default:
		handlers.RespondBadRequest(w, msgInvalidMode)
		return
	}

	result, err := h.service.RunSweep(r.Context(), mode)
	if err != nil {
		h.logger.Error("POST /reminders/run - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /reminders/run - Sweep finished: mode=%s, processed=%d, succeeded=%d, failed=%d",
		mode, result.Processed, result.Succeeded, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
