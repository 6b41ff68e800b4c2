package cases

import "errors"

var (
	// ErrCaseNotFound возвращается, когда обращение не найдено
	ErrCaseNotFound = errors.New("cases.repository: case not found")

	// ErrDuplicateCaseNumber возвращается при нарушении уникальности номера обращения
	ErrDuplicateCaseNumber = errors.New("cases.repository: duplicate case number")

	// ErrConflict возвращается при откате сериализуемой транзакции
	ErrConflict = errors.New("cases.repository: concurrent update conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("cases.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("cases.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("cases.repository: failed to scan row")
)
