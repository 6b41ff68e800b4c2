package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const (
	caseNumberPrefix = "CASE"
	// MaxCaseSequence максимальный порядковый номер в году (4 цифры)
	MaxCaseSequence = 9999
)

var (
	// ErrInvalidCaseNumber возвращается при разборе строки не в формате CASE-YYYY-NNNN
	ErrInvalidCaseNumber = errors.New("domain: invalid case number")

	// ErrSequenceExhausted возвращается, когда номера за год закончились
	ErrSequenceExhausted = errors.New("domain: case number sequence exhausted for year")

	caseNumberRe = regexp.MustCompile(`^CASE-(\d{4})-(\d{4})$`)
)

// FormatCaseNumber формирует номер обращения CASE-YYYY-NNNN
func FormatCaseNumber(year, seq int) (string, error) {
	if year < 1000 || year > 9999 {
		return "", fmt.Errorf("%w: year %d", ErrInvalidCaseNumber, year)
	}
	if seq < 1 {
		return "", fmt.Errorf("%w: sequence %d", ErrInvalidCaseNumber, seq)
	}
	if seq > MaxCaseSequence {
		return "", fmt.Errorf("%w: %d", ErrSequenceExhausted, year)
	}
	return fmt.Sprintf("%s-%04d-%04d", caseNumberPrefix, year, seq), nil
}

// ParseCaseNumber разбирает номер обращения на год и порядковый номер
func ParseCaseNumber(s string) (year int, seq int, err error) {
	m := caseNumberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCaseNumber, s)
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	if seq == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCaseNumber, s)
	}
	return year, seq, nil
}
