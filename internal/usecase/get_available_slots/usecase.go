package get_available_slots

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// UseCase use case для получения доступных слотов консультаций
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = domain.DefaultMaxNumDays
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Подставляем значения по умолчанию
	if req.ExpertID == 0 {
		req.ExpertID = uc.cfg.DefaultExpertID
	}
	if req.NumDays == 0 {
		req.NumDays = domain.DefaultNumDays
	}

	uc.logger.Info("GetAvailableSlots: expert=%d, startDate=%s, numDays=%d",
		req.ExpertID, req.StartDate.Format(domain.DateFormat), req.NumDays)

	// 2. Валидация входных данных
	if err := validateRequest(req, uc.cfg.MaxDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 3. Недельное расписание эксперта. Ни одной строки - отдельный сигнал
	rows, err := uc.scheduleRepo.GetWeeklyByExpert(ctx, req.ExpertID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get weekly schedule expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
	}

	schedule := domain.NewWeeklySchedule(rows)
	if !schedule.IsConfigured() {
		uc.logger.Info("GetAvailableSlots: expert=%d has no availability configured", req.ExpertID)
		return &Response{ExpertID: req.ExpertID, NoAvailabilityConfigured: true, Days: []domain.DaySlots{}}, nil
	}

	// 4. Окно запроса в часовом поясе эксперта
	y, m, d := req.StartDate.Date()
	startDate := time.Date(y, m, d, 0, 0, 0, 0, uc.cfg.Location)
	endDate := startDate.AddDate(0, 0, req.NumDays-1)

	// 5. Заблокированные даты в окне
	blocked, err := uc.scheduleRepo.GetBlockedDates(ctx, req.ExpertID, startDate, endDate)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked dates expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: failed to get blocked dates: %v", ErrInternal, err)
	}

	// 6. Активные бронирования эксперта в окне
	bookings, err := uc.bookingRepo.GetByExpertWithFilter(ctx, domain.BookingsFilter{
		ExpertID:  req.ExpertID,
		StartDate: &startDate,
		EndDate:   &endDate,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings expert=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты по дням
	days := slices.Collect(GenerateSlots(Params{
		StartDate: startDate,
		NumDays:   req.NumDays,
		Schedule:  schedule,
		Blocked:   domain.NewBlockedDates(blocked),
		Bookings:  groupByDate(bookings),
		Now:       uc.timeProvider.Now().In(uc.cfg.Location),
		Options:   uc.cfg.Options,
	}))

	uc.logger.Info("GetAvailableSlots: generated %d days for expert=%d, startDate=%s",
		len(days), req.ExpertID, startDate.Format(domain.DateFormat))

	return &Response{
		ExpertID: req.ExpertID,
		Days:     days,
	}, nil
}
