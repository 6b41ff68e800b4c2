package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Email string `json:"contactEmail" validate:"required,email"`
	Phone string `json:"contactPhone" validate:"required,e164"`
}

type slotRow struct {
	StartTime string `json:"startTime" validate:"required,hhmm"`
	Date      string `json:"date" validate:"omitempty,yyyymmdd"`
}

type schedule struct {
	Rows []slotRow `json:"rows" validate:"max=2,dive"`
}

func TestStruct_FieldDetail(t *testing.T) {
	v := New()

	err := v.Struct(contact{Email: "not-an-email", Phone: "12345"})
	require.Error(t, err)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Fields["contactEmail"])
	assert.Equal(t, "e164", vErr.Fields["contactPhone"])
	assert.Contains(t, err.Error(), "contactEmail: email")
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(contact{Email: "client@firm.example", Phone: "+14155552671"}))
}

func TestStruct_CustomRulesAndNesting(t *testing.T) {
	v := New()

	err := v.Struct(schedule{Rows: []slotRow{{StartTime: "10:00", Date: "2026-10-19"}, {StartTime: "25:61", Date: "19.10.2026"}}})

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "hhmm", vErr.Fields["rows[1].startTime"])
	assert.Equal(t, "yyyymmdd", vErr.Fields["rows[1].date"])
	assert.NotContains(t, vErr.Fields, "rows[0].startTime")
}
