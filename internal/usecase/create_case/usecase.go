package create_case

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// UseCase use case создания обращения на консультацию
type UseCase struct {
	caseRepo     CaseRepository
	validator    Validator
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	caseRepo CaseRepository,
	validator Validator,
	notifications Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		caseRepo:     caseRepo,
		validator:    validator,
		notifier:     notifications,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает обращение в статусе submitted с новым номером CASE-YYYY-NNNN.
// Номер выделяется атомарным счетчиком в той же транзакции, что и вставка,
// поэтому откат вставки не оставляет пропуска в нумерации
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCase: customer=%d, caseType=%s", req.CustomerID, req.CaseType)

	// 1. Валидация входных данных
	normalize(req)
	if err := uc.validator.Struct(req); err != nil {
		uc.logger.Warn("CreateCase: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	c := &domain.ConsultationCase{
		CustomerID:    req.CustomerID,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		CompanyName:   req.CompanyName,
		BusinessType:  req.BusinessType,
		CaseType:      req.CaseType,
		Title:         req.Title,
		Description:   req.Description,
		Attachments:   req.Attachments,
		Status:        domain.CaseStatusSubmitted,
		Amount:        req.Amount,
		PaymentStatus: domain.PaymentStatusNotRequired,
	}
	if c.Amount != nil && *c.Amount > 0 {
		c.PaymentStatus = domain.PaymentStatusPending
	}

	// 2. Номер и вставка в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.create(txCtx, c)
	})

	switch {
	case err == nil:
	case errors.Is(err, casesRepo.ErrDuplicateCaseNumber):
		// Счетчик разошелся с таблицей обращений (например, после ручного импорта)
		uc.logger.Error("CreateCase: case number %s already exists: %v", c.CaseNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ErrCaseNumberExhausted):
		return nil, err
	default:
		uc.logger.Error("CreateCase: failed to create case for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to create case: %v", ErrInternal, err)
	}

	uc.metrics.IncCaseCreated(c.CaseType)
	uc.logger.Info("CreateCase: case %s (id=%d) created for customer=%d", c.CaseNumber, c.ID, c.CustomerID)

	resp := &Response{
		CaseID:     c.ID,
		CaseNumber: c.CaseNumber,
		Status:     c.Status,
		Warnings:   []string{},
	}

	// 3. Письмо клиенту (best-effort)
	if err := uc.notifier.SendCaseReceived(ctx, notifier.CaseReceived{
		To:          c.ContactEmail,
		ContactName: c.ContactName,
		CaseNumber:  c.CaseNumber,
		Title:       c.Title,
	}); err != nil {
		uc.logger.Warn("CreateCase: acknowledgement for case %s not sent: %v", c.CaseNumber, err)
		resp.Warnings = append(resp.Warnings, "acknowledgement email was not sent")
	}

	return resp, nil
}

func (uc *UseCase) create(ctx context.Context, c *domain.ConsultationCase) error {
	year := uc.timeProvider.Now().Year()

	seq, err := uc.caseRepo.NextSequence(ctx, year)
	if err != nil {
		return err
	}

	number, err := domain.FormatCaseNumber(year, seq)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceExhausted) {
			uc.logger.Error("CreateCase: sequence exhausted for year %d", year)
			return fmt.Errorf("%w: year %d", ErrCaseNumberExhausted, year)
		}
		return err
	}
	c.CaseNumber = number

	_, err = uc.caseRepo.Create(ctx, c)
	return err
}

// normalize обрезает пробелы в текстовых полях
func normalize(req *Request) {
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	req.ContactPhone = strings.TrimSpace(req.ContactPhone)
	req.BusinessType = strings.TrimSpace(req.BusinessType)
	req.CaseType = strings.TrimSpace(req.CaseType)
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.CompanyName != nil {
		trimmed := strings.TrimSpace(*req.CompanyName)
		req.CompanyName = &trimmed
	}
}
