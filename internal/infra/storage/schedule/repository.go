package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/pgerr"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const (
	availabilityTable = "weekly_availability"
	blockedDatesTable = "blocked_dates"
)

var availabilityColumns = []string{
	"id",
	"expert_id",
	"day_of_week",
	"is_active",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"buffer_minutes",
	"created_at",
	"updated_at",
}

var blockedDateColumns = []string{
	"id",
	"expert_id",
	"blocked_date",
	"reason",
	"created_at",
}

// Repository репозиторий расписания эксперта: недельный шаблон и заблокированные даты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertWeekly создает или обновляет строку расписания на день недели.
// Строки не удаляются: отключение дня делается через is_active = false
func (r *Repository) UpsertWeekly(ctx context.Context, row *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(availabilityTable).
		Columns(
			"expert_id",
			"day_of_week",
			"is_active",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"buffer_minutes",
		).
		Values(
			row.ExpertID,
			int(row.DayOfWeek),
			row.IsActive,
			row.StartTime,
			row.EndTime,
			row.SlotDurationMinutes,
			row.BufferMinutes,
		).
		Suffix(`ON CONFLICT (expert_id, day_of_week) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&row.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - execute upsert: %v", ErrExecQuery, err)
	}

	row.CreatedAt = createdAt.Time
	row.UpdatedAt = updatedAt.Time

	return row, nil
}

// GetWeeklyByExpert возвращает все строки расписания эксперта (включая неактивные),
// отсортированные по дню недели
func (r *Repository) GetWeeklyByExpert(ctx context.Context, expertID int64) ([]*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From(availabilityTable).
		Where(squirrel.Eq{"expert_id": expertID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByExpert - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByExpert - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyAvailability, 0, 7)
	for rows.Next() {
		row, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyByExpert - scan row: %v", ErrScanRow, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByExpert - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetWeeklyByDay возвращает строку расписания эксперта на день недели
func (r *Repository) GetWeeklyByDay(ctx context.Context, expertID int64, day time.Weekday) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From(availabilityTable).
		Where(squirrel.Eq{"expert_id": expertID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByDay - build select query: %v", ErrBuildQuery, err)
	}

	row, err := scanWeekly(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAvailabilityNotFound
	}
	if pgerr.IsConflict(err) {
		return nil, fmt.Errorf("%w: GetWeeklyByDay - read availability: %v", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByDay - scan row: %v", ErrScanRow, err)
	}

	return row, nil
}

// CreateBlockedDate блокирует дату эксперта
func (r *Repository) CreateBlockedDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(blockedDatesTable).
		Columns("expert_id", "blocked_date", "reason").
		Values(blocked.ExpertID, domain.DateKey(blocked.Date), blocked.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blocked.ID, &createdAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDuplicateBlockedDate
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedDate - execute insert: %v", ErrExecQuery, err)
	}

	blocked.CreatedAt = createdAt.Time

	return blocked, nil
}

// GetBlockedDates возвращает заблокированные даты эксперта в периоде [from, to]
func (r *Repository) GetBlockedDates(ctx context.Context, expertID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedDateColumns...).
		From(blockedDatesTable).
		Where(squirrel.Eq{"expert_id": expertID}).
		Where(squirrel.GtOrEq{"blocked_date": domain.DateKey(from)}).
		Where(squirrel.LtOrEq{"blocked_date": domain.DateKey(to)}).
		OrderBy("blocked_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		blocked, err := scanBlockedDate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlockedDates - scan row: %v", ErrScanRow, err)
		}
		result = append(result, blocked)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// IsDateBlocked проверяет, заблокирована ли дата эксперта
func (r *Repository) IsDateBlocked(ctx context.Context, expertID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(blockedDatesTable).
		Where(squirrel.Eq{"expert_id": expertID, "blocked_date": domain.DateKey(date)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsDateBlocked - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		if pgerr.IsConflict(err) {
			return false, fmt.Errorf("%w: IsDateBlocked - read blocked dates: %v", ErrConflict, err)
		}
		return false, fmt.Errorf("%w: IsDateBlocked - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// DeleteBlockedDate снимает блокировку даты
func (r *Repository) DeleteBlockedDate(ctx context.Context, expertID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(blockedDatesTable).
		Where(squirrel.Eq{"expert_id": expertID, "blocked_date": domain.DateKey(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWeekly(s rowScanner) (*domain.WeeklyAvailability, error) {
	var row domain.WeeklyAvailability
	var dayOfWeek int
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&row.ID,
		&row.ExpertID,
		&dayOfWeek,
		&row.IsActive,
		&row.StartTime,
		&row.EndTime,
		&row.SlotDurationMinutes,
		&row.BufferMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.DayOfWeek = time.Weekday(dayOfWeek)
	row.CreatedAt = createdAt.Time
	row.UpdatedAt = updatedAt.Time

	return &row, nil
}

func scanBlockedDate(s rowScanner) (*domain.BlockedDate, error) {
	var blocked domain.BlockedDate
	var reason sql.NullString
	var createdAt sql.NullTime

	if err := s.Scan(&blocked.ID, &blocked.ExpertID, &blocked.Date, &reason, &createdAt); err != nil {
		return nil, err
	}

	if reason.Valid {
		blocked.Reason = &reason.String
	}
	blocked.CreatedAt = createdAt.Time

	return &blocked, nil
}
