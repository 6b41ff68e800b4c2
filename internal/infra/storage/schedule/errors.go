package schedule

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда строка расписания не найдена
	ErrAvailabilityNotFound = errors.New("schedule.repository: weekly availability not found")

	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("schedule.repository: blocked date not found")

	// ErrDuplicateBlockedDate возвращается при повторной блокировке той же даты
	ErrDuplicateBlockedDate = errors.New("schedule.repository: date already blocked")

	// ErrConflict возвращается, когда чтение откатилось из-за конкурентной транзакции
	ErrConflict = errors.New("schedule.repository: concurrent read conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
