package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок Postgres, которые означают конфликт конкурентной записи
const (
	CodeUniqueViolation      pq.ErrorCode = "23505"
	CodeExclusionViolation   pq.ErrorCode = "23P01"
	CodeSerializationFailure pq.ErrorCode = "40001"
	CodeDeadlockDetected     pq.ErrorCode = "40P01"
)

// Code возвращает код ошибки Postgres или пустую строку
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// IsUniqueViolation проверяет нарушение UNIQUE ограничения
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsConflict проверяет, что ошибка вызвана гонкой с другой транзакцией:
// нарушение уникальности/исключения или откат сериализуемой транзакции.
// Такие операции можно повторить со свежим чтением.
func IsConflict(err error) bool {
	switch Code(err) {
	case CodeUniqueViolation, CodeExclusionViolation, CodeSerializationFailure, CodeDeadlockDetected:
		return true
	default:
		return false
	}
}

// Constraint возвращает имя нарушенного ограничения
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
