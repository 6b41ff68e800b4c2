package meeting

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("meeting client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса встреч
	ErrInvalidResponse = errors.New("meeting client: invalid response")

	// ErrInvalidRequest возвращается, когда в запросе не хватает данных для создания встречи
	ErrInvalidRequest = errors.New("meeting client: invalid request")
)
