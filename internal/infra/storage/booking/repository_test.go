package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	repo, _, mock := newMockDB(t)
	return repo, mock
}

func newMockDB(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), db, mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO consultation_bookings")).
		WithArgs(int64(11), int64(7), "2025-03-03", "10:00", "10:30", nil, "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), createdAt))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		CaseID:      11,
		ExpertID:    7,
		BookingDate: date,
		StartTime:   "10:00",
		EndTime:     "10:30",
		Status:      domain.BookingStatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), booking.ID)
	assert.Equal(t, createdAt, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Conflict(t *testing.T) {
	codes := []pq.ErrorCode{"23505", "23P01", "40001"}

	for _, code := range codes {
		t.Run(string(code), func(t *testing.T) {
			repo, mock := newMock(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO consultation_bookings")).
				WillReturnError(&pq.Error{Code: code, Constraint: "consultation_bookings_no_overlap"})

			_, err := repo.Create(context.Background(), &domain.Booking{
				CaseID:      1,
				ExpertID:    7,
				BookingDate: time.Now(),
				StartTime:   "10:00",
				EndTime:     "10:30",
				Status:      domain.BookingStatusConfirmed,
			})

			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestRepository_GetByExpertWithFilter_LocksSingleDayInTx(t *testing.T) {
	repo, db, mock := newMockDB(t)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM consultation_bookings WHERE .* ORDER BY booking_date ASC, start_time ASC FOR UPDATE`).
		WithArgs(int64(7), "2025-03-03", "2025-03-03", "cancelled").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(11), int64(7), date, "10:00:00", "10:30:00", "https://meet/x", "confirmed", date))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	bookings, err := repo.GetByExpertWithFilter(ctx, domain.BookingsFilter{ExpertID: 7, StartDate: &date, EndDate: &date})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Len(t, bookings, 1)
	assert.Equal(t, "10:00", bookings[0].StartTime.String())
	assert.Equal(t, "10:30", bookings[0].EndTime.String())
	require.NotNil(t, bookings[0].MeetingLink)
	assert.Equal(t, "https://meet/x", *bookings[0].MeetingLink)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByExpertWithFilter_SerializationFailure(t *testing.T) {
	repo, db, mock := newMockDB(t)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM consultation_bookings WHERE .* FOR UPDATE`).
		WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	_, err = repo.GetByExpertWithFilter(ctx, domain.BookingsFilter{ExpertID: 7, StartDate: &date, EndDate: &date})
	require.NoError(t, tx.Rollback())

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByExpertWithFilter_NoLockOutsideTx(t *testing.T) {
	repo, mock := newMock(t)
	from := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	mock.ExpectQuery(`SELECT .* FROM consultation_bookings WHERE .* ORDER BY booking_date ASC, start_time ASC$`).
		WithArgs(int64(7), "2025-03-03", "2025-03-09").
		WillReturnRows(sqlmock.NewRows(columns))

	bookings, err := repo.GetByExpertWithFilter(context.Background(), domain.BookingsFilter{
		ExpertID:        7,
		StartDate:       &from,
		EndDate:         &to,
		IncludeInactive: true,
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateMeetingLink_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE consultation_bookings SET meeting_link = $1 WHERE id = $2")).
		WithArgs("https://meet/x", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMeetingLink(context.Background(), 99, "https://meet/x")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_CancelByCase(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE consultation_bookings SET status = $1 WHERE case_id = $2 AND status <> $3")).
		WithArgs("cancelled", int64(11), "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled, err := repo.CancelByCase(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
