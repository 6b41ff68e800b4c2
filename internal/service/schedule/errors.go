package schedule

import "errors"

var (
	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("blocked date not found")

	// ErrBlockedDateExists возвращается при повторной блокировке той же даты
	ErrBlockedDateExists = errors.New("blocked date already exists")

	// ErrInvalidInput возвращается при некорректных входных данных.
	// Детализация по полям доступна через errors.As(err, *validation.Error)
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
