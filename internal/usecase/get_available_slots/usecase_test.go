package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) GetWeeklyByExpert(ctx context.Context, expertID int64) ([]*domain.WeeklyAvailability, error) {
	args := m.Called(ctx, expertID)
	rows, _ := args.Get(0).([]*domain.WeeklyAvailability)
	return rows, args.Error(1)
}

func (m *mockScheduleRepo) GetBlockedDates(ctx context.Context, expertID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	args := m.Called(ctx, expertID, from, to)
	dates, _ := args.Get(0).([]*domain.BlockedDate)
	return dates, args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByExpertWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*domain.Booking)
	return bookings, args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func newUseCase(schedule *mockScheduleRepo, bookings *mockBookingRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, schedule, Config{Location: time.UTC, DefaultExpertID: 7, MaxDays: 31}, logger.Nop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func weekdayRows(expertID int64) []*domain.WeeklyAvailability {
	rows := make([]*domain.WeeklyAvailability, 0, 5)
	for day := time.Monday; day <= time.Friday; day++ {
		rows = append(rows, &domain.WeeklyAvailability{
			ExpertID:            expertID,
			DayOfWeek:           day,
			IsActive:            true,
			StartTime:           "10:00",
			EndTime:             "18:00",
			SlotDurationMinutes: 30,
			BufferMinutes:       10,
		})
	}
	return rows
}

func TestUseCase_Execute_WeekWindow(t *testing.T) {
	schedule := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	// пятница перед окном
	uc := newUseCase(schedule, bookings, monday.AddDate(0, 0, -3).Add(12*time.Hour))

	schedule.On("GetWeeklyByExpert", mock.Anything, int64(7)).Return(weekdayRows(7), nil)
	schedule.On("GetBlockedDates", mock.Anything, int64(7), monday, monday.AddDate(0, 0, 6)).
		Return([]*domain.BlockedDate{}, nil)
	bookings.On("GetByExpertWithFilter", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.ExpertID == 7 && f.StartDate.Equal(monday) && f.EndDate.Equal(monday.AddDate(0, 0, 6)) && !f.IncludeInactive
	})).Return([]*domain.Booking{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{StartDate: monday})

	require.NoError(t, err)
	assert.False(t, resp.NoAvailabilityConfigured)
	require.Len(t, resp.Days, 7)

	withSlots := 0
	for _, day := range resp.Days {
		switch day.Date.Weekday() {
		case time.Saturday, time.Sunday:
			assert.Empty(t, day.Slots)
		default:
			withSlots++
			require.Len(t, day.Slots, 12)
			assert.Equal(t, "10:00", day.Slots[0].StartTime.String())
			assert.Equal(t, "17:50", day.Slots[11].EndTime.String())
		}
	}
	assert.Equal(t, 5, withSlots)

	schedule.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestUseCase_Execute_NoAvailabilityConfigured(t *testing.T) {
	schedule := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	uc := newUseCase(schedule, bookings, monday)

	schedule.On("GetWeeklyByExpert", mock.Anything, int64(9)).Return([]*domain.WeeklyAvailability{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{ExpertID: 9, StartDate: monday, NumDays: 3})

	require.NoError(t, err)
	assert.True(t, resp.NoAvailabilityConfigured)
	assert.Empty(t, resp.Days)
	bookings.AssertNotCalled(t, "GetByExpertWithFilter", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_AllInactiveIsNotNoAvailability(t *testing.T) {
	schedule := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	uc := newUseCase(schedule, bookings, monday)

	rows := weekdayRows(7)
	for _, r := range rows {
		r.IsActive = false
	}
	schedule.On("GetWeeklyByExpert", mock.Anything, int64(7)).Return(rows, nil)
	schedule.On("GetBlockedDates", mock.Anything, int64(7), mock.Anything, mock.Anything).Return([]*domain.BlockedDate{}, nil)
	bookings.On("GetByExpertWithFilter", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{StartDate: monday, NumDays: 2})

	require.NoError(t, err)
	assert.False(t, resp.NoAvailabilityConfigured)
	require.Len(t, resp.Days, 2)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no start date", req: &Request{ExpertID: 7, NumDays: 7}},
		{name: "too many days", req: &Request{ExpertID: 7, StartDate: monday, NumDays: 32}},
		{name: "negative days", req: &Request{ExpertID: 7, StartDate: monday, NumDays: -1}},
		{name: "negative expert", req: &Request{ExpertID: -1, StartDate: monday, NumDays: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&mockScheduleRepo{}, &mockBookingRepo{}, monday)

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_RepositoryError(t *testing.T) {
	schedule := &mockScheduleRepo{}
	uc := newUseCase(schedule, &mockBookingRepo{}, monday)

	schedule.On("GetWeeklyByExpert", mock.Anything, int64(7)).Return(nil, errors.New("connection refused"))

	_, err := uc.Execute(context.Background(), &Request{StartDate: monday})
	assert.ErrorIs(t, err, ErrInternal)
}
