package models

import "errors"

var (
	// ErrInvalidStatus возвращается при некорректном статусе обращения
	ErrInvalidStatus = errors.New("invalid case status")
)
