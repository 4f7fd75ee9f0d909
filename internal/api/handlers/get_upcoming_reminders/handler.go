package get_upcoming_reminders

import (
	"net/http"
	"strconv"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidDays = "параметр days должен быть положительным числом"

	defaultDays = 7
	maxDays     = 31
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

// Handle GET /api/v1/reminders/upcoming?days=7
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days := defaultDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		days = parsed
	}
	if days > maxDays {
		days = maxDays
	}

	result, err := h.service.UpcomingReminders(r.Context(), days)
	if err != nil {
		h.logger.Error("GET /reminders/upcoming - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
