package create_case

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных полях обращения.
	// Детализация по полям доступна через errors.As(err, *validation.Error)
	ErrInvalidInput = errors.New("create_case: invalid input data")

	// ErrCaseNumberExhausted возвращается, когда номера обращений за год закончились
	ErrCaseNumberExhausted = errors.New("create_case: case numbers for the year are exhausted")

	// ErrConflict возвращается, когда выделенный номер обращения уже занят
	ErrConflict = errors.New("create_case: case number conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_case: internal error")
)
