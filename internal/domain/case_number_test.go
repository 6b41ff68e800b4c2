package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCaseNumber(t *testing.T) {
	n, err := FormatCaseNumber(2026, 1)
	require.NoError(t, err)
	assert.Equal(t, "CASE-2026-0001", n)

	n, err = FormatCaseNumber(2026, 9999)
	require.NoError(t, err)
	assert.Equal(t, "CASE-2026-9999", n)

	_, err = FormatCaseNumber(2026, 10000)
	assert.ErrorIs(t, err, ErrSequenceExhausted)

	_, err = FormatCaseNumber(2026, 0)
	assert.ErrorIs(t, err, ErrInvalidCaseNumber)
}

func TestParseCaseNumber(t *testing.T) {
	year, seq, err := ParseCaseNumber("CASE-2025-0042")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 42, seq)

	for _, bad := range []string{"CASE-2025-42", "case-2025-0042", "CASE-2025-0000", "CASE-25-0001", "CASE-2025-00042"} {
		_, _, err := ParseCaseNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidCaseNumber, bad)
	}
}

func TestCaseNumber_RoundTripOrdering(t *testing.T) {
	prev := ""
	for seq := 1; seq <= 12; seq++ {
		n, err := FormatCaseNumber(2026, seq)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}
