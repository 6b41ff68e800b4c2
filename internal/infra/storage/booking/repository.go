package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/pgerr"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const table = "consultation_bookings"

var columns = []string{
	"id",
	"case_id",
	"expert_id",
	"booking_date",
	"start_time",
	"end_time",
	"meeting_link",
	"status",
	"created_at",
}

// Repository репозиторий для работы с бронированиями консультаций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
//
// Ограничения БД (UNIQUE(expert_id, booking_date, start_time) и исключение пересечений
// активных интервалов) гарантируют, что из двух конкурентных вставок пройдет одна;
// вторая получит ErrConflict
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"case_id",
			"expert_id",
			"booking_date",
			"start_time",
			"end_time",
			"meeting_link",
			"status",
		).
		Values(
			booking.CaseID,
			booking.ExpertID,
			domain.DateKey(booking.BookingDate),
			booking.StartTime,
			booking.EndTime,
			booking.MeetingLink,
			booking.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt)
	if pgerr.IsConflict(err) {
		return nil, fmt.Errorf("%w: Create - constraint %q: %v", ErrConflict, pgerr.Constraint(err), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time

	return booking, nil
}

// GetActiveByCase возвращает активное бронирование обращения.
// У обращения не может быть больше одного активного бронирования
func (r *Repository) GetActiveByCase(ctx context.Context, caseID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"case_id": caseID}).
		Where(squirrel.NotEq{"status": domain.BookingStatusCancelled}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCase - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCase - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByExpertWithFilter получает бронирования эксперта с фильтрацией по периоду.
//
// Примеры использования:
//
// 1. Активные бронирования на конкретную дату (используется при генерации слотов и бронировании):
//    filter := domain.BookingsFilter{ExpertID: 7, StartDate: &date, EndDate: &date}
//
// 2. Все бронирования за период, включая отменённые:
//    filter := domain.BookingsFilter{ExpertID: 7, StartDate: &from, EndDate: &to, IncludeInactive: true}
//
// Внутри транзакции для одной даты добавляется FOR UPDATE, чтобы конкурентное
// бронирование того же дня ждало завершения текущего
func (r *Repository) GetByExpertWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"expert_id": filter.ExpertID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.DateKey(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.DateKey(*filter.EndDate)})
	}

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.BookingStatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExpertWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if pgerr.IsConflict(err) {
		return nil, fmt.Errorf("%w: GetByExpertWithFilter - lock bookings: %v", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExpertWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByExpertWithFilter - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		if pgerr.IsConflict(err) {
			return nil, fmt.Errorf("%w: GetByExpertWithFilter - rows error: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: GetByExpertWithFilter - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateMeetingLink сохраняет ссылку на встречу, полученную после коммита бронирования
func (r *Repository) UpdateMeetingLink(ctx context.Context, id int64, link string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("meeting_link", link).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateMeetingLink - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateMeetingLink - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateMeetingLink - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CancelByCase отменяет активные бронирования обращения и освобождает их интервалы.
// Возвращает число отменённых бронирований
func (r *Repository) CancelByCase(ctx context.Context, caseID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.BookingStatusCancelled).
		Where(squirrel.Eq{"case_id": caseID}).
		Where(squirrel.NotEq{"status": domain.BookingStatusCancelled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CancelByCase - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelByCase - execute update: %v", ErrExecQuery, err)
	}

	cancelled, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelByCase - get rows affected: %v", ErrExecQuery, err)
	}

	return cancelled, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var meetingLink sql.NullString
	var createdAt sql.NullTime

	err := s.Scan(
		&booking.ID,
		&booking.CaseID,
		&booking.ExpertID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&meetingLink,
		&booking.Status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if meetingLink.Valid {
		booking.MeetingLink = &meetingLink.String
	}
	booking.CreatedAt = createdAt.Time

	return &booking, nil
}
