package book_consultation

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	scheduleRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// memStore хранилище в памяти. DoSerializable выполняет транзакции строго по очереди
// и откатывает изменения при ошибке, как сериализуемая транзакция Postgres
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	cases    map[int64]domain.ConsultationCase
	bookings []*domain.Booking
	weekly   map[time.Weekday]*domain.WeeklyAvailability
	blocked  map[string]bool
	nextID   int64

	// onCreate вызывается перед вставкой; ненулевая ошибка отменяет вставку
	onCreate func(b *domain.Booking) error
	// onGetCase и onListBookings вызываются перед чтением; ненулевая ошибка прерывает чтение
	onGetCase      func(id int64) error
	onListBookings func() error
	// committedOutside бронирования "конкурентных" транзакций, переживающие откат
	committedOutside []*domain.Booking
	// casesCommittedOutside обращения, изменённые "конкурентной" транзакцией
	casesCommittedOutside []domain.ConsultationCase
	createCalls           int
	getCaseCalls          int
}

func newMemStore() *memStore {
	return &memStore{
		cases:   make(map[int64]domain.ConsultationCase),
		weekly:  make(map[time.Weekday]*domain.WeeklyAvailability),
		blocked: make(map[string]bool),
	}
}

func (s *memStore) addCase(c domain.ConsultationCase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c
}

func (s *memStore) caseByID(id int64) domain.ConsultationCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cases[id]
}

func (s *memStore) activeBookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.IsActive() {
			result = append(result, b)
		}
	}
	return result
}

// DoSerializable реализует TransactionManager
func (s *memStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshotCases := make(map[int64]domain.ConsultationCase, len(s.cases))
	for id, c := range s.cases {
		snapshotCases[id] = c
	}
	snapshotBookings := len(s.bookings)
	s.mu.Unlock()

	err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.cases = snapshotCases
		s.bookings = s.bookings[:snapshotBookings]
	}
	s.bookings = append(s.bookings, s.committedOutside...)
	s.committedOutside = nil
	for _, c := range s.casesCommittedOutside {
		s.cases[c.ID] = c
	}
	s.casesCommittedOutside = nil
	return err
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.ConsultationCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCaseCalls++

	if s.onGetCase != nil {
		if err := s.onGetCase(id); err != nil {
			return nil, err
		}
	}

	c, ok := s.cases[id]
	if !ok {
		return nil, casesRepo.ErrCaseNotFound
	}
	return &c, nil
}

func (s *memStore) Update(_ context.Context, c *domain.ConsultationCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; !ok {
		return casesRepo.ErrCaseNotFound
	}
	s.cases[c.ID] = *c
	return nil
}

func (s *memStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++

	if s.onCreate != nil {
		if err := s.onCreate(b); err != nil {
			return nil, err
		}
	}

	// UNIQUE + исключение пересечений
	for _, existing := range s.bookings {
		if existing.IsActive() && existing.ExpertID == b.ExpertID &&
			domain.IsSameDay(existing.BookingDate, b.BookingDate) && existing.Overlaps(b.StartTime, b.EndTime) {
			return nil, bookingRepo.ErrConflict
		}
	}

	s.nextID++
	created := *b
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func (s *memStore) GetByExpertWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.onListBookings != nil {
		if err := s.onListBookings(); err != nil {
			return nil, err
		}
	}

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.ExpertID != filter.ExpertID || (!filter.IncludeInactive && !b.IsActive()) {
			continue
		}
		if filter.StartDate != nil && domain.IsDateBefore(b.BookingDate, *filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && domain.IsDateBefore(*filter.EndDate, b.BookingDate) {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memStore) UpdateMeetingLink(_ context.Context, id int64, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.MeetingLink = &link
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

func (s *memStore) GetWeeklyByDay(_ context.Context, _ int64, day time.Weekday) (*domain.WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.weekly[day]
	if !ok {
		return nil, scheduleRepo.ErrAvailabilityNotFound
	}
	return row, nil
}

func (s *memStore) GetWeeklyByExpert(_ context.Context, _ int64) ([]*domain.WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]*domain.WeeklyAvailability, 0, len(s.weekly))
	for _, row := range s.weekly {
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *memStore) IsDateBlocked(_ context.Context, _ int64, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked[domain.DateKey(date)], nil
}

func (s *memStore) GetBlockedDates(_ context.Context, _ int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.BlockedDate, 0)
	for key := range s.blocked {
		date, _ := time.Parse(domain.DateFormat, key)
		if !domain.IsDateBefore(date, from) && !domain.IsDateBefore(to, date) {
			result = append(result, &domain.BlockedDate{Date: date})
		}
	}
	return result, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifier.BookingConfirmation
	err  error
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, msg notifier.BookingConfirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts map[string]int
}

func (f *fakeMetrics) IncBookingCreated() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
}

func (f *fakeMetrics) IncBookingConflict(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts == nil {
		f.conflicts = make(map[string]int)
	}
	f.conflicts[reason]++
}
