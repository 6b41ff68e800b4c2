package book_consultation

import "errors"

var (
	// ErrCaseNotFound возвращается, когда обращение не найдено
	ErrCaseNotFound = errors.New("book_consultation: case not found")

	// ErrForbidden возвращается, когда клиент пытается записаться по чужому обращению
	ErrForbidden = errors.New("book_consultation: case belongs to another customer")

	// ErrInvalidCaseState возвращается, когда обращение уже не в статусе до встречи
	ErrInvalidCaseState = errors.New("book_consultation: case is not in a bookable state")

	// ErrSlotUnavailable возвращается, когда интервал занят, заблокирован,
	// не совпадает со слотом расписания или уже начался. Клиент должен перезапросить слоты
	ErrSlotUnavailable = errors.New("book_consultation: slot is no longer available")

	// ErrConflict возвращается, когда конкурентные транзакции не дали завершить
	// бронирование за все попытки
	ErrConflict = errors.New("book_consultation: booking conflict, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_consultation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_consultation: internal error")
)
