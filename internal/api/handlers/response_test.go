package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

func TestRespondValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("create_case: invalid input data: %w", &validation.Error{
		Fields: map[string]string{"contactEmail": "email"},
	})

	RespondValidationError(w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Fields["contactEmail"])
}

func TestRespondValidationError_WithoutFields(t *testing.T) {
	w := httptest.NewRecorder()

	RespondValidationError(w, fmt.Errorf("plain"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "fields")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		CaseID int64 `json:"caseId"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"caseId": 11}`, false},
		{"unknown field", `{"caseId": 11, "extra": true}`, true},
		{"two objects", `{"caseId": 11}{"caseId": 12}`, true},
		{"broken json", `{"caseId":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(r, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(11), dst.CaseID)
		})
	}
}
