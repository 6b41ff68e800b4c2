package cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

// Service сервис для работы с обращениями и их жизненным циклом
type Service struct {
	caseRepo    CaseRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса обращений
func NewService(
	caseRepo CaseRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		caseRepo:    caseRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetCase получает обращение вместе с активным бронированием.
// Клиент видит только свои обращения, сотрудник видит все
func (s *Service) GetCase(ctx context.Context, req *models.GetCaseRequest) (*models.CaseResponse, error) {
	s.logger.Info("GetCase: fetching case id=%d for user=%d", req.CaseID, req.UserID)

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		if errors.Is(err, casesRepo.ErrCaseNotFound) {
			s.logger.Warn("GetCase: case id=%d not found", req.CaseID)
			return nil, ErrCaseNotFound
		}
		s.logger.Error("GetCase: repository error for case id=%d: %v", req.CaseID, err)
		return nil, fmt.Errorf("%w: GetCase - repository error: %v", ErrInternal, err)
	}

	if !req.IsStaff && !c.IsOwnedBy(req.UserID) {
		s.logger.Warn("GetCase: access denied for user=%d to case id=%d", req.UserID, req.CaseID)
		return nil, ErrAccessDenied
	}

	resp := models.FromDomainCase(c)

	booking, err := s.bookingRepo.GetActiveByCase(ctx, c.ID)
	switch {
	case err == nil:
		resp.Booking = models.FromDomainBooking(booking)
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
	default:
		s.logger.Error("GetCase: failed to get booking for case id=%d: %v", c.ID, err)
		return nil, fmt.Errorf("%w: GetCase - booking repository error: %v", ErrInternal, err)
	}

	return resp, nil
}

// UpdateStatus переводит обращение в новый статус по графу жизненного цикла.
// Рекомендованные услуги записываются только при переходе в recommendations_sent,
// номера заказов только при переходе в converted.
// Отмена обращения освобождает его активное бронирование
func (s *Service) UpdateStatus(ctx context.Context, caseID int64, req *models.UpdateStatusRequest) (*models.CaseResponse, error) {
	s.logger.Info("UpdateStatus: case id=%d -> %s", caseID, req.Status)

	// 1. Проверяем входные данные до открытия транзакции
	next := domain.CaseStatus(req.Status)
	if !next.IsValid() {
		s.logger.Warn("UpdateStatus: unknown status=%s for case id=%d", req.Status, caseID)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if len(req.SuggestedServiceSlugs) > 0 && next != domain.CaseStatusRecommendationsSent {
		return nil, fmt.Errorf("%w: suggestedServiceSlugs require status %s", ErrInvalidInput, domain.CaseStatusRecommendationsSent)
	}
	if len(req.ConvertedOrderIDs) > 0 && next != domain.CaseStatusConverted {
		return nil, fmt.Errorf("%w: convertedOrderIds require status %s", ErrInvalidInput, domain.CaseStatusConverted)
	}
	if req.AssignedExpertID != nil && *req.AssignedExpertID <= 0 {
		return nil, fmt.Errorf("%w: assignedExpertId must be positive", ErrInvalidInput)
	}

	var updated *domain.ConsultationCase
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Блокируем обращение
		c, err := s.caseRepo.GetByID(txCtx, caseID)
		if err != nil {
			return err
		}

		// 3. Проверяем переход
		if !c.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, next)
		}

		releaseBooking := c.Status.ReleasesBookingOn(next)
		c.Status = next
		if req.AssignedExpertID != nil {
			c.AssignedExpertID = req.AssignedExpertID
		}
		if len(req.SuggestedServiceSlugs) > 0 {
			c.SuggestedServiceSlugs = req.SuggestedServiceSlugs
		}
		if len(req.ConvertedOrderIDs) > 0 {
			c.ConvertedOrderIDs = req.ConvertedOrderIDs
		}

		// 4. Сохраняем и освобождаем слот, если встреча ещё не состоялась
		if err := s.caseRepo.Update(txCtx, c); err != nil {
			return err
		}
		if releaseBooking {
			cancelled, err := s.bookingRepo.CancelByCase(txCtx, c.ID)
			if err != nil {
				return err
			}
			if cancelled > 0 {
				s.logger.Info("UpdateStatus: cancelled %d booking(s) of case id=%d", cancelled, c.ID)
			}
		}

		updated = c
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, casesRepo.ErrCaseNotFound):
			s.logger.Warn("UpdateStatus: case id=%d not found", caseID)
			return nil, ErrCaseNotFound
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: case id=%d: %v", caseID, err)
			return nil, err
		default:
			s.logger.Error("UpdateStatus: failed to update case id=%d: %v", caseID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateStatus: case id=%d is now %s", caseID, updated.Status)
	return models.FromDomainCase(updated), nil
}

// ListCases возвращает страницу обращений для админ-панели.
// Пагинация считается по количеству отфильтрованных записей
func (s *Service) ListCases(ctx context.Context, req *models.ListCasesRequest) (*models.CaseListResponse, error) {
	q, err := req.ToDomainQuery()
	if err != nil {
		s.logger.Warn("ListCases: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	q = q.Normalize()

	s.logger.Info("ListCases: statuses=%v, caseType=%q, search=%q, page=%d, pageSize=%d",
		q.Statuses, q.CaseType, q.Search, q.Page, q.PageSize)

	total, err := s.caseRepo.Count(ctx, q)
	if err != nil {
		s.logger.Error("ListCases: count error: %v", err)
		return nil, fmt.Errorf("%w: ListCases - count error: %v", ErrInternal, err)
	}

	found := []*domain.ConsultationCase{}
	if total > q.Offset() {
		found, err = s.caseRepo.List(ctx, q)
		if err != nil {
			s.logger.Error("ListCases: repository error: %v", err)
			return nil, fmt.Errorf("%w: ListCases - repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainCasePage(found, domain.NewPage(total, q.Page, q.PageSize)), nil
}

// GetExpertBookings получает бронирования эксперта за период
func (s *Service) GetExpertBookings(ctx context.Context, req *models.ExpertBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetExpertBookings: expert=%d, includeInactive=%t", req.ExpertID, req.IncludeInactive)

	if req.StartDate != nil && req.EndDate != nil && domain.IsDateBefore(*req.EndDate, *req.StartDate) {
		s.logger.Warn("GetExpertBookings: period end before start for expert=%d", req.ExpertID)
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByExpertWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetExpertBookings: repository error for expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: GetExpertBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetExpertBookings: fetched %d bookings for expert=%d", len(bookings), req.ExpertID)
	return models.FromDomainBookingList(bookings), nil
}
