package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID == "" {
		return fmt.Errorf("%w: doctorID is required", ErrInvalidInput)
	}

	if req.HospitalID != nil && *req.HospitalID == "" {
		return fmt.Errorf("%w: hospitalID must not be empty", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Timezone != nil && *req.Timezone == "" {
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidInput)
	}

	return nil
}
