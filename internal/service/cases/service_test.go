package cases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockCaseRepo struct {
	mock.Mock
}

func (m *mockCaseRepo) GetByID(ctx context.Context, id int64) (*domain.ConsultationCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsultationCase), args.Error(1)
}

func (m *mockCaseRepo) Update(ctx context.Context, c *domain.ConsultationCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCaseRepo) List(ctx context.Context, q domain.CaseQuery) ([]*domain.ConsultationCase, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConsultationCase), args.Error(1)
}

func (m *mockCaseRepo) Count(ctx context.Context, q domain.CaseQuery) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetActiveByCase(ctx context.Context, caseID int64) (*domain.Booking, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByExpertWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) CancelByCase(ctx context.Context, caseID int64) (int64, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).(int64), args.Error(1)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService() (*Service, *mockCaseRepo, *mockBookingRepo) {
	caseRepo := &mockCaseRepo{}
	bookings := &mockBookingRepo{}
	return NewService(caseRepo, bookings, inlineTx{}, logger.Nop()), caseRepo, bookings
}

func sampleCase(status domain.CaseStatus) *domain.ConsultationCase {
	return &domain.ConsultationCase{
		ID:            11,
		CaseNumber:    "CASE-2025-0011",
		CustomerID:    42,
		ContactName:   "Иван",
		Status:        status,
		PaymentStatus: domain.PaymentStatusNotRequired,
	}
}

func TestService_GetCase(t *testing.T) {
	link := "https://meet.example/case-2025-0011"
	booking := &domain.Booking{
		ID: 5, CaseID: 11, ExpertID: 7,
		BookingDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00", EndTime: "10:30",
		MeetingLink: &link, Status: domain.BookingStatusConfirmed,
	}

	t.Run("owner sees case with booking", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusMeetingScheduled), nil)
		bookings.On("GetActiveByCase", mock.Anything, int64(11)).Return(booking, nil)

		resp, err := svc.GetCase(context.Background(), &models.GetCaseRequest{CaseID: 11, UserID: 42})

		require.NoError(t, err)
		assert.Equal(t, "CASE-2025-0011", resp.CaseNumber)
		require.NotNil(t, resp.Booking)
		assert.Equal(t, "2025-03-03", resp.Booking.Date)
		assert.Equal(t, &link, resp.Booking.MeetingLink)
		assert.Equal(t, []string{}, resp.Attachments)
	})

	t.Run("case without booking", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusSubmitted), nil)
		bookings.On("GetActiveByCase", mock.Anything, int64(11)).Return(nil, bookingRepo.ErrBookingNotFound)

		resp, err := svc.GetCase(context.Background(), &models.GetCaseRequest{CaseID: 11, UserID: 42})

		require.NoError(t, err)
		assert.Nil(t, resp.Booking)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusSubmitted), nil)

		_, err := svc.GetCase(context.Background(), &models.GetCaseRequest{CaseID: 11, UserID: 99})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("staff sees any case", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusSubmitted), nil)
		bookings.On("GetActiveByCase", mock.Anything, int64(11)).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := svc.GetCase(context.Background(), &models.GetCaseRequest{CaseID: 11, UserID: 99, IsStaff: true})

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(nil, casesRepo.ErrCaseNotFound)

		_, err := svc.GetCase(context.Background(), &models.GetCaseRequest{CaseID: 11, UserID: 42})

		assert.ErrorIs(t, err, ErrCaseNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("recommendations with slugs", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusMeetingCompleted), nil)
		caseRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.ConsultationCase) bool {
			return c.Status == domain.CaseStatusRecommendationsSent && len(c.SuggestedServiceSlugs) == 2
		})).Return(nil)

		resp, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{
			Status:                "recommendations_sent",
			SuggestedServiceSlugs: []string{"tax-audit", "bookkeeping"},
		})

		require.NoError(t, err)
		assert.Equal(t, "recommendations_sent", resp.Status)
		assert.Equal(t, []string{"tax-audit", "bookkeeping"}, resp.SuggestedServiceSlugs)
		caseRepo.AssertExpectations(t)
	})

	t.Run("cancel releases booking", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusMeetingScheduled), nil)
		caseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		bookings.On("CancelByCase", mock.Anything, int64(11)).Return(int64(1), nil)

		resp, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "cancelled"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		bookings.AssertExpectations(t)
	})

	t.Run("close before meeting releases booking", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusMeetingScheduled), nil)
		caseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		bookings.On("CancelByCase", mock.Anything, int64(11)).Return(int64(1), nil)

		resp, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "closed"})

		require.NoError(t, err)
		assert.Equal(t, "closed", resp.Status)
		bookings.AssertExpectations(t)
	})

	t.Run("close after meeting keeps booking", func(t *testing.T) {
		svc, caseRepo, bookings := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusMeetingCompleted), nil)
		caseRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "closed"})

		require.NoError(t, err)
		assert.Equal(t, "closed", resp.Status)
		bookings.AssertNotCalled(t, "CancelByCase", mock.Anything, mock.Anything)
	})

	t.Run("transition not in graph", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusSubmitted), nil)

		_, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "converted"})

		assert.ErrorIs(t, err, ErrInvalidTransition)
		caseRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("terminal status is final", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(sampleCase(domain.CaseStatusClosed), nil)

		_, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "under_review"})

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("slugs with wrong status", func(t *testing.T) {
		svc, caseRepo, _ := newService()

		_, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{
			Status:                "under_review",
			SuggestedServiceSlugs: []string{"tax-audit"},
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
		caseRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "archived"})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("GetByID", mock.Anything, int64(11)).Return(nil, casesRepo.ErrCaseNotFound)

		_, err := svc.UpdateStatus(context.Background(), 11, &models.UpdateStatusRequest{Status: "closed"})

		assert.ErrorIs(t, err, ErrCaseNotFound)
	})
}

func TestService_ListCases(t *testing.T) {
	t.Run("page computed from filtered total", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		expected := domain.CaseQuery{
			Statuses: []domain.CaseStatus{domain.CaseStatusSubmitted},
			Search:   "налог",
			Page:     2,
			PageSize: 20,
		}
		caseRepo.On("Count", mock.Anything, expected).Return(45, nil)
		caseRepo.On("List", mock.Anything, expected).Return([]*domain.ConsultationCase{sampleCase(domain.CaseStatusSubmitted)}, nil)

		resp, err := svc.ListCases(context.Background(), &models.ListCasesRequest{
			Statuses: []string{"submitted"},
			Search:   "  налог ",
			Page:     2,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Cases, 1)
		assert.Equal(t, 45, resp.Page.Total)
		assert.Equal(t, 3, resp.Page.TotalPages)
		assert.True(t, resp.Page.HasNext)
		assert.True(t, resp.Page.HasPrev)
	})

	t.Run("page past the end skips list query", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("Count", mock.Anything, mock.Anything).Return(5, nil)

		resp, err := svc.ListCases(context.Background(), &models.ListCasesRequest{Page: 3, PageSize: 10})

		require.NoError(t, err)
		assert.Empty(t, resp.Cases)
		assert.Equal(t, 1, resp.Page.TotalPages)
		caseRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.ListCases(context.Background(), &models.ListCasesRequest{Statuses: []string{"lost"}})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("count error", func(t *testing.T) {
		svc, caseRepo, _ := newService()
		caseRepo.On("Count", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

		_, err := svc.ListCases(context.Background(), &models.ListCasesRequest{})

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_GetExpertBookings(t *testing.T) {
	svc, _, bookings := newService()
	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	bookings.On("GetByExpertWithFilter", mock.Anything, domain.BookingsFilter{
		ExpertID: 7, StartDate: &from, EndDate: &to,
	}).Return([]*domain.Booking{
		{ID: 1, ExpertID: 7, BookingDate: from, StartTime: "10:00", EndTime: "10:30", Status: domain.BookingStatusConfirmed},
	}, nil)

	resp, err := svc.GetExpertBookings(context.Background(), &models.ExpertBookingsRequest{
		ExpertID: 7, StartDate: &from, EndDate: &to,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "10:30", resp.Bookings[0].EndTime)

	_, err = svc.GetExpertBookings(context.Background(), &models.ExpertBookingsRequest{
		ExpertID: 7, StartDate: &to, EndDate: &from,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
