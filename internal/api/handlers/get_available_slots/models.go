package get_available_slots

import (
	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/HMS-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID string   `json:"doctorId"`
	Date     string   `json:"date"`
	Timezone string   `json:"timezone"`
	Slots    []string `json:"slots"` // Времена начала в таймзоне ответа
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, slot.String())
	}
	return &AvailableSlotsResponse{
		DoctorID: resp.DoctorID,
		Date:     resp.Date.Format(domain.DateFormat),
		Timezone: resp.Timezone,
		Slots:    slots,
	}
}
