package book_consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	scheduleRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/meeting"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/pkg/pgerr"
)

// UseCase use case бронирования консультации по обращению
type UseCase struct {
	bookingRepo  BookingRepository
	caseRepo     CaseRepository
	scheduleRepo ScheduleRepository
	meetings     MeetingProvider
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	caseRepo CaseRepository,
	scheduleRepo ScheduleRepository,
	meetings MeetingProvider,
	notifications Notifier,
	metrics Metrics,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxConflictRetries < 0 {
		cfg.MaxConflictRetries = 0
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		caseRepo:     caseRepo,
		scheduleRepo: scheduleRepo,
		meetings:     meetings,
		notifier:     notifications,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute выполняет use case бронирования.
//
// Доступность слота перепроверяется внутри сериализуемой транзакции; слоты,
// показанные клиенту ранее, не учитываются. Если транзакция проиграла гонку
// (ограничение БД или откат сериализации), она повторяется со свежим чтением,
// и повторная попытка обычно завершается ErrSlotUnavailable.
// Ссылка на встречу и письмо создаются после коммита; их сбой не отменяет бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookConsultation: user=%d, case=%d, date=%s, time=%s-%s",
		req.UserID, req.CaseID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookConsultation: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в часовом поясе эксперта
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.cfg.Location)

	// 3. Транзакция с повтором при конфликте
	var (
		booking *domain.Booking
		c       *domain.ConsultationCase
		err     error
	)
	for attempt := 0; ; attempt++ {
		booking, c, err = uc.bookInTx(ctx, req, date)
		if err == nil {
			break
		}
		if !isConflict(err) {
			return nil, err
		}

		uc.metrics.IncBookingConflict("retry")
		if attempt >= uc.cfg.MaxConflictRetries {
			uc.logger.Error("BookConsultation: case=%d gave up after %d attempts: %v", req.CaseID, attempt+1, err)
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		uc.logger.Warn("BookConsultation: conflict on attempt %d for case=%d, retrying: %v", attempt+1, req.CaseID, err)
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("BookConsultation: booking id=%d created for case=%s, expert=%d",
		booking.ID, c.CaseNumber, booking.ExpertID)

	resp := &Response{
		BookingID:  booking.ID,
		CaseID:     c.ID,
		CaseNumber: c.CaseNumber,
		CaseStatus: c.Status,
		ExpertID:   booking.ExpertID,
		Date:       booking.BookingDate,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		Warnings:   []string{},
	}

	// 4. Ссылка на встречу (после коммита, best-effort)
	uc.attachMeetingLink(ctx, c, booking, resp)

	// 5. Письмо клиенту (после коммита, best-effort)
	uc.sendConfirmation(ctx, c, resp)

	return resp, nil
}

// bookInTx одна попытка бронирования в сериализуемой транзакции
func (uc *UseCase) bookInTx(ctx context.Context, req *Request, date time.Time) (*domain.Booking, *domain.ConsultationCase, error) {
	var (
		created *domain.Booking
		updated *domain.ConsultationCase
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now().In(uc.cfg.Location)

		// 3.1. Обращение блокируется до конца транзакции
		c, err := uc.caseRepo.GetByID(txCtx, req.CaseID)
		if err != nil {
			if errors.Is(err, casesRepo.ErrCaseNotFound) {
				uc.logger.Warn("BookConsultation: case id=%d not found", req.CaseID)
				return ErrCaseNotFound
			}
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to get case id=%d: %v", req.CaseID, err)
			return fmt.Errorf("%w: failed to get case: %v", ErrInternal, err)
		}

		if !req.IsStaff && !c.IsOwnedBy(req.UserID) {
			uc.logger.Warn("BookConsultation: user=%d is not the owner of case=%d", req.UserID, req.CaseID)
			return ErrForbidden
		}

		// 3.2. Записаться можно только до встречи
		if !c.CanBeBooked() {
			uc.logger.Warn("BookConsultation: case=%d in status %s cannot be booked", c.ID, c.Status)
			return fmt.Errorf("%w: status %s", ErrInvalidCaseState, c.Status)
		}

		// 3.3. Эксперт: назначенный на обращение или эксперт по умолчанию
		expertID := uc.cfg.DefaultExpertID
		if c.AssignedExpertID != nil {
			expertID = *c.AssignedExpertID
		}
		if expertID <= 0 {
			uc.logger.Error("BookConsultation: no expert for case=%d", c.ID)
			return fmt.Errorf("%w: no expert assigned and no default expert configured", ErrInvalidInput)
		}

		// 3.4. Слот не должен быть в прошлом
		if err := validateNotStarted(date, req.StartTime, now, uc.cfg.MinNoticeMinutes); err != nil {
			uc.logger.Warn("BookConsultation: %v", err)
			return err
		}

		// 3.5. Строка расписания на день недели
		row, err := uc.scheduleRepo.GetWeeklyByDay(txCtx, expertID, date.Weekday())
		if err != nil && !errors.Is(err, scheduleRepo.ErrAvailabilityNotFound) {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to get weekly schedule: %v", err)
			return fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
		}
		if row == nil || !row.IsActive {
			uc.logger.Warn("BookConsultation: expert=%d does not work on %s", expertID, date.Weekday())
			return fmt.Errorf("%w: expert does not work on %s", ErrSlotUnavailable, date.Weekday())
		}

		// 3.6. Интервал должен совпадать со слотом шаблона
		if !row.HasSlot(req.StartTime, req.EndTime) {
			uc.logger.Warn("BookConsultation: %s-%s is not a slot of expert=%d", req.StartTime, req.EndTime, expertID)
			return fmt.Errorf("%w: %s-%s is not a valid slot", ErrSlotUnavailable, req.StartTime, req.EndTime)
		}

		// 3.7. Заблокированная дата
		blocked, err := uc.scheduleRepo.IsDateBlocked(txCtx, expertID, date)
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to check blocked date: %v", err)
			return fmt.Errorf("%w: failed to check blocked date: %v", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("BookConsultation: date %s is blocked for expert=%d", domain.DateKey(date), expertID)
			return fmt.Errorf("%w: date is blocked", ErrSlotUnavailable)
		}

		// 3.8. Бронирования дня с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByExpertWithFilter(txCtx, domain.BookingsFilter{
			ExpertID:  expertID,
			StartDate: &date,
			EndDate:   &date,
		})
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if taken := findOverlap(bookings, req.StartTime, req.EndTime); taken != nil {
			uc.logger.Warn("BookConsultation: %s-%s overlaps booking id=%d", req.StartTime, req.EndTime, taken.ID)
			uc.metrics.IncBookingConflict("taken")
			return fmt.Errorf("%w: interval is already booked", ErrSlotUnavailable)
		}

		// 3.9. Создаем бронирование. Ограничения БД отсекают параллельную вставку
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CaseID:      c.ID,
			ExpertID:    expertID,
			BookingDate: date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Status:      domain.BookingStatusConfirmed,
		})
		if err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.10. Переводим обращение в meeting_scheduled
		c.Status = domain.CaseStatusMeetingScheduled
		c.AssignedExpertID = &expertID
		if err := uc.caseRepo.Update(txCtx, c); err != nil {
			if isConflict(err) {
				return err
			}
			uc.logger.Error("BookConsultation: failed to update case id=%d: %v", c.ID, err)
			return fmt.Errorf("%w: failed to update case: %v", ErrInternal, err)
		}

		created = booking
		updated = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return created, updated, nil
}

// isConflict ошибка гонки с другой транзакцией, которую имеет смысл повторить
func isConflict(err error) bool {
	return errors.Is(err, bookingRepo.ErrConflict) ||
		errors.Is(err, casesRepo.ErrConflict) ||
		errors.Is(err, scheduleRepo.ErrConflict) ||
		pgerr.IsConflict(err)
}

func (uc *UseCase) attachMeetingLink(ctx context.Context, c *domain.ConsultationCase, booking *domain.Booking, resp *Response) {
	startsAt := booking.StartTime.On(booking.BookingDate, uc.cfg.Location)
	duration := time.Duration(booking.EndTime.Minutes()-booking.StartTime.Minutes()) * time.Minute

	link, err := uc.meetings.CreateMeeting(ctx, meeting.Request{
		CaseNumber: c.CaseNumber,
		ExpertID:   booking.ExpertID,
		StartsAt:   startsAt,
		Duration:   duration,
	})
	if err != nil {
		uc.logger.Warn("BookConsultation: meeting link for booking id=%d not created: %v", booking.ID, err)
		resp.Warnings = append(resp.Warnings, "meeting link is not available yet")
		return
	}

	if err := uc.bookingRepo.UpdateMeetingLink(ctx, booking.ID, link); err != nil {
		uc.logger.Warn("BookConsultation: meeting link for booking id=%d not saved: %v", booking.ID, err)
		resp.Warnings = append(resp.Warnings, "meeting link was not saved")
	}

	resp.MeetingLink = &link
}

func (uc *UseCase) sendConfirmation(ctx context.Context, c *domain.ConsultationCase, resp *Response) {
	msg := notifier.BookingConfirmation{
		To:          c.ContactEmail,
		ContactName: c.ContactName,
		CaseNumber:  c.CaseNumber,
		Date:        domain.DateKey(resp.Date),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
	}
	if resp.MeetingLink != nil {
		msg.MeetingLink = *resp.MeetingLink
	}

	if err := uc.notifier.SendBookingConfirmation(ctx, msg); err != nil {
		uc.logger.Warn("BookConsultation: confirmation email for case=%s not sent: %v", c.CaseNumber, err)
		resp.Warnings = append(resp.Warnings, "confirmation email was not sent")
	}
}
