package meeting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Builtin генерирует ссылку на комнату без обращения к внешнему сервису.
// Имя комнаты содержит номер обращения и случайный UUID, поэтому не угадывается
type Builtin struct {
	baseURL string
}

// NewBuiltin создает генератор ссылок вида <baseURL>/<case-number>-<uuid>
func NewBuiltin(baseURL string) *Builtin {
	return &Builtin{baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateMeeting возвращает ссылку на новую комнату
func (b *Builtin) CreateMeeting(_ context.Context, req Request) (string, error) {
	if req.CaseNumber == "" {
		return "", fmt.Errorf("%w: case number is required", ErrInvalidRequest)
	}
	return fmt.Sprintf("%s/%s-%s", b.baseURL, strings.ToLower(req.CaseNumber), uuid.NewString()), nil
}
