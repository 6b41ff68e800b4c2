package get_blocked_dates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListBlockedDates(ctx context.Context, req *models.ListBlockedDatesRequest) (*models.BlockedDateListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlockedDateListResponse), args.Error(1)
}

func newRequest(expertID, rawQuery string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/experts/"+expertID+"/blocked-dates?"+rawQuery, nil)
	return mux.SetURLVars(r, map[string]string{"expertId": expertID})
}

func TestToServiceRequest_Defaults(t *testing.T) {
	today := time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC)

	req, err := ToServiceRequest(7, "", "", today)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", domain.DateKey(req.From))
	assert.Equal(t, "2025-06-01", domain.DateKey(req.To))

	req, err = ToServiceRequest(7, "2025-04-01", "", today)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", domain.DateKey(req.To))

	req, err = ToServiceRequest(7, "2025-04-01", "2025-04-10", today)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", domain.DateKey(req.To))
}

func TestToServiceRequest_Invalid(t *testing.T) {
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := ToServiceRequest(7, "2025/04/01", "", today)
	assert.Error(t, err)
	_, err = ToServiceRequest(7, "", "next week", today)
	assert.Error(t, err)
}

func TestHandler_GetBlockedDates(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, time.UTC, logger.Nop())

	svc.On("ListBlockedDates", mock.Anything, mock.MatchedBy(func(req *models.ListBlockedDatesRequest) bool {
		return req.ExpertID == 7 && domain.DateKey(req.From) == "2025-03-01" && domain.DateKey(req.To) == "2025-03-31"
	})).Return(&models.BlockedDateListResponse{BlockedDates: []models.BlockedDateResponse{
		{ID: 1, ExpertID: 7, Date: "2025-03-08"},
	}}, nil)

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("7", "from=2025-03-01&to=2025-03-31"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2025-03-08"`)
	svc.AssertExpectations(t)
}

func TestHandler_GetBlockedDates_Errors(t *testing.T) {
	tests := []struct {
		name     string
		expertID string
		query    string
		err      error
		code     int
	}{
		{"invalid expert", "x", "", nil, http.StatusBadRequest},
		{"invalid date", "7", "from=soon", nil, http.StatusBadRequest},
		{"reversed period", "7", "from=2025-03-31&to=2025-03-01", schedule.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "7", "", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			h := NewHandler(svc, time.UTC, logger.Nop())
			if tt.err != nil {
				svc.On("ListBlockedDates", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.expertID, tt.query))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
