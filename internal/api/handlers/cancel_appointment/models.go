package cancel_appointment

// CancelAppointmentRequest HTTP request model
// Тело опционально: отмена без причины допустима
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
