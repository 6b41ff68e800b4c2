package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDays int) error {
	if req.ExpertID <= 0 {
		return fmt.Errorf("%w: expertId must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.NumDays < 1 || req.NumDays > maxDays {
		return fmt.Errorf("%w: numDays must be in 1..%d", ErrInvalidInput, maxDays)
	}

	return nil
}
