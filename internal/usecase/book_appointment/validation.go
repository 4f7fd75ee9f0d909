package book_appointment

import (
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.DoctorID == "" {
		return fmt.Errorf("%w: doctorID is required", ErrInvalidInput)
	}

	if req.HospitalID == "" {
		return fmt.Errorf("%w: hospitalID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if req.Type != nil && !domain.IsValidAppointmentType(domain.AppointmentType(*req.Type)) {
		return fmt.Errorf("%w: unknown appointment type %q", ErrInvalidInput, *req.Type)
	}

	if req.PatientID != nil && *req.PatientID == "" {
		return fmt.Errorf("%w: patientID must not be empty", ErrInvalidInput)
	}

	if req.Timezone != nil && *req.Timezone == "" {
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidInput)
	}

	return nil
}
