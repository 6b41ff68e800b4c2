package create_blocked_date

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateBlockedDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlockedDateResponse), args.Error(1)
}

const validBody = `{"date": "2025-03-08", "reason": "конференция"}`

func newRequest(expertID, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/experts/"+expertID+"/blocked-dates", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"expertId": expertID})
}

func TestHandler_CreateBlockedDate(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, logger.Nop())

	svc.On("CreateBlockedDate", mock.Anything, mock.MatchedBy(func(req *models.CreateBlockedDateRequest) bool {
		return req.ExpertID == 7 && req.Date == "2025-03-08" && req.Reason != nil
	})).Return(&models.BlockedDateResponse{ID: 4, ExpertID: 7, Date: "2025-03-08"}, nil)

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("7", validBody))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":4`)
	svc.AssertExpectations(t)
}

func TestHandler_CreateBlockedDate_Errors(t *testing.T) {
	verr := &validation.Error{Fields: map[string]string{"date": "yyyymmdd"}}

	tests := []struct {
		name     string
		expertID string
		body     string
		err      error
		code     int
	}{
		{"invalid expert", "x", validBody, nil, http.StatusBadRequest},
		{"broken json", "7", `{"date":`, nil, http.StatusBadRequest},
		{"validation", "7", validBody, fmt.Errorf("%w: %w", schedule.ErrInvalidInput, verr), http.StatusBadRequest},
		{"already blocked", "7", validBody, schedule.ErrBlockedDateExists, http.StatusConflict},
		{"internal", "7", validBody, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			h := NewHandler(svc, logger.Nop())
			if tt.err != nil {
				svc.On("CreateBlockedDate", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.expertID, tt.body))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
