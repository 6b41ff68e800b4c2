package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

// Service сервис управления расписанием эксперта: недельный шаблон и заблокированные даты
type Service struct {
	scheduleRepo ScheduleRepository
	validator    Validator
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	validator Validator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		validator:    validator,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWeekly возвращает недельное расписание эксперта, упорядоченное по дню недели
func (s *Service) GetWeekly(ctx context.Context, expertID int64) (*models.WeeklyResponse, error) {
	s.logger.Info("GetWeekly: fetching availability for expert=%d", expertID)

	rows, err := s.scheduleRepo.GetWeeklyByExpert(ctx, expertID)
	if err != nil {
		s.logger.Error("GetWeekly: repository error for expert=%d: %v", expertID, err)
		return nil, fmt.Errorf("%w: GetWeekly - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeekly(expertID, rows), nil
}

// ReplaceWeekly сохраняет переданные строки расписания целиком.
// Строки не удаляются: чтобы закрыть день, его передают с isActive=false
func (s *Service) ReplaceWeekly(ctx context.Context, req *models.ReplaceWeeklyRequest) (*models.WeeklyResponse, error) {
	s.logger.Info("ReplaceWeekly: saving %d rows for expert=%d", len(req.Rows), req.ExpertID)

	// 1. Валидируем теги и межполевые правила
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("ReplaceWeekly: validation failed for expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validateRows(req.Rows); err != nil {
		s.logger.Warn("ReplaceWeekly: validation failed for expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Сохраняем все строки в одной транзакции
	var saved []*domain.WeeklyAvailability
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, row := range req.Rows {
			if _, err := s.scheduleRepo.UpsertWeekly(txCtx, row.ToDomainRow(req.ExpertID)); err != nil {
				return err
			}
		}

		var err error
		saved, err = s.scheduleRepo.GetWeeklyByExpert(txCtx, req.ExpertID)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceWeekly: failed to save rows for expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: ReplaceWeekly - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWeekly: expert=%d now has %d rows", req.ExpertID, len(saved))
	return models.FromDomainWeekly(req.ExpertID, saved), nil
}

// ListBlockedDates возвращает заблокированные даты эксперта за период включительно
func (s *Service) ListBlockedDates(ctx context.Context, req *models.ListBlockedDatesRequest) (*models.BlockedDateListResponse, error) {
	s.logger.Info("ListBlockedDates: expert=%d, period=%s to %s",
		req.ExpertID, domain.DateKey(req.From), domain.DateKey(req.To))

	if domain.IsDateBefore(req.To, req.From) {
		s.logger.Warn("ListBlockedDates: period end before start for expert=%d", req.ExpertID)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			&validation.Error{Fields: map[string]string{"to": "gtefield=from"}})
	}

	dates, err := s.scheduleRepo.GetBlockedDates(ctx, req.ExpertID, req.From, req.To)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error for expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedDateList(dates), nil
}

// CreateBlockedDate блокирует дату эксперта целиком
func (s *Service) CreateBlockedDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("CreateBlockedDate: expert=%d, date=%s", req.ExpertID, req.Date)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("CreateBlockedDate: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	date, _ := time.Parse(domain.DateFormat, req.Date)
	blocked := &domain.BlockedDate{
		ExpertID: req.ExpertID,
		Date:     date,
		Reason:   trimReason(req.Reason),
	}

	created, err := s.scheduleRepo.CreateBlockedDate(ctx, blocked)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDuplicateBlockedDate) {
			s.logger.Warn("CreateBlockedDate: date %s already blocked for expert=%d", req.Date, req.ExpertID)
			return nil, ErrBlockedDateExists
		}
		s.logger.Error("CreateBlockedDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedDate: blocked date id=%d created", created.ID)
	return models.FromDomainBlockedDate(created), nil
}

// DeleteBlockedDate снимает блокировку даты
func (s *Service) DeleteBlockedDate(ctx context.Context, expertID int64, date time.Time) error {
	s.logger.Info("DeleteBlockedDate: expert=%d, date=%s", expertID, domain.DateKey(date))

	if err := s.scheduleRepo.DeleteBlockedDate(ctx, expertID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("DeleteBlockedDate: date %s is not blocked for expert=%d", domain.DateKey(date), expertID)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("DeleteBlockedDate: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlockedDate - repository error: %v", ErrInternal, err)
	}

	return nil
}

// validateRows проверяет правила, которые не выразить тегами:
// уникальность дня недели и начало раньше конца
func validateRows(rows []models.WeeklyRowRequest) error {
	fields := make(map[string]string)
	seen := make(map[int]bool, len(rows))

	for i, row := range rows {
		if seen[row.DayOfWeek] {
			fields[fmt.Sprintf("rows[%d].dayOfWeek", i)] = "unique"
		}
		seen[row.DayOfWeek] = true

		domainRow := row.ToDomainRow(0)
		if !domainRow.StartTime.IsBefore(domainRow.EndTime) {
			fields[fmt.Sprintf("rows[%d].endTime", i)] = "gtfield=startTime"
			continue
		}
		if len(domainRow.CandidateSlots()) == 0 {
			fields[fmt.Sprintf("rows[%d].slotDurationMinutes", i)] = "fits_window"
		}
	}

	if len(fields) > 0 {
		return &validation.Error{Fields: fields}
	}
	return nil
}

func trimReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
