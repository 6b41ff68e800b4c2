package cases

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/pgerr"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const (
	table         = "consultation_cases"
	countersTable = "case_number_counters"
)

var columns = []string{
	"id",
	"case_number",
	"customer_id",
	"contact_name",
	"contact_email",
	"contact_phone",
	"company_name",
	"business_type",
	"case_type",
	"title",
	"description",
	"attachments",
	"status",
	"assigned_expert_id",
	"suggested_service_slugs",
	"converted_order_ids",
	"amount",
	"payment_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий обращений на консультацию
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория обращений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextSequence атомарно выделяет следующий номер обращения в году.
// Один оператор upsert: первый вызов за год возвращает 1, конкурентные вызовы
// сериализуются блокировкой строки счетчика и никогда не получают одинаковый номер
func (r *Repository) NextSequence(ctx context.Context, year int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(countersTable).
		Columns("year", "last_seq").
		Values(year, 1).
		Suffix("ON CONFLICT (year) DO UPDATE SET last_seq = " + countersTable + ".last_seq + 1 RETURNING last_seq").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: NextSequence - build upsert query: %v", ErrBuildQuery, err)
	}

	var seq int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: NextSequence - execute upsert: %v", ErrExecQuery, err)
	}

	return seq, nil
}

// Create создает обращение. Номер обращения должен быть уже назначен
func (r *Repository) Create(ctx context.Context, c *domain.ConsultationCase) (*domain.ConsultationCase, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"case_number",
			"customer_id",
			"contact_name",
			"contact_email",
			"contact_phone",
			"company_name",
			"business_type",
			"case_type",
			"title",
			"description",
			"attachments",
			"status",
			"assigned_expert_id",
			"suggested_service_slugs",
			"converted_order_ids",
			"amount",
			"payment_status",
		).
		Values(
			c.CaseNumber,
			c.CustomerID,
			c.ContactName,
			c.ContactEmail,
			c.ContactPhone,
			c.CompanyName,
			c.BusinessType,
			c.CaseType,
			c.Title,
			c.Description,
			pq.Array(nonNil(c.Attachments)),
			c.Status,
			c.AssignedExpertID,
			pq.Array(nonNil(c.SuggestedServiceSlugs)),
			pq.Array(nonNil(c.ConvertedOrderIDs)),
			c.Amount,
			c.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt, &updatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCaseNumber, c.CaseNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByID получает обращение по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до ее завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ConsultationCase, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCase(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCaseNotFound
	}
	if pgerr.IsConflict(err) {
		return nil, fmt.Errorf("%w: GetByID - lock case: %v", ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan case: %v", ErrScanRow, err)
	}

	return c, nil
}

// Update сохраняет изменяемые поля обращения: статус, эксперта,
// рекомендованные услуги, заказы и оплату
func (r *Repository) Update(ctx context.Context, c *domain.ConsultationCase) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", c.Status).
		Set("assigned_expert_id", c.AssignedExpertID).
		Set("suggested_service_slugs", pq.Array(nonNil(c.SuggestedServiceSlugs))).
		Set("converted_order_ids", pq.Array(nonNil(c.ConvertedOrderIDs))).
		Set("amount", c.Amount).
		Set("payment_status", c.PaymentStatus).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrCaseNotFound
	}
	if pgerr.IsConflict(err) {
		return fmt.Errorf("%w: Update: %v", ErrConflict, err)
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// List возвращает страницу обращений по запросу.
// Запрос должен быть нормализован (domain.CaseQuery.Normalize)
func (r *Repository) List(ctx context.Context, q domain.CaseQuery) ([]*domain.ConsultationCase, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select(columns...).From(table), q).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset())).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ConsultationCase, 0, q.PageSize)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Count возвращает количество обращений, подходящих под фильтр (без учета пагинации)
func (r *Repository) Count(ctx context.Context, q domain.CaseQuery) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(table), q).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// likeEscaper экранирует спецсимволы ILIKE, в Postgres экранирующий символ по умолчанию обратный слэш
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyFilter переводит фильтры запроса в условия WHERE
func applyFilter(b squirrel.SelectBuilder, q domain.CaseQuery) squirrel.SelectBuilder {
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(squirrel.Eq{"status": statuses})
	}
	if q.CaseType != "" {
		b = b.Where(squirrel.Eq{"case_type": q.CaseType})
	}
	if q.ExpertID != nil {
		b = b.Where(squirrel.Eq{"assigned_expert_id": *q.ExpertID})
	}
	if q.CustomerID != nil {
		b = b.Where(squirrel.Eq{"customer_id": *q.CustomerID})
	}
	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(q.Search) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"case_number": pattern},
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"contact_name": pattern},
		})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(s rowScanner) (*domain.ConsultationCase, error) {
	var c domain.ConsultationCase
	var companyName sql.NullString
	var assignedExpertID sql.NullInt64
	var amount sql.NullFloat64
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.CustomerID,
		&c.ContactName,
		&c.ContactEmail,
		&c.ContactPhone,
		&companyName,
		&c.BusinessType,
		&c.CaseType,
		&c.Title,
		&c.Description,
		pq.Array(&c.Attachments),
		&c.Status,
		&assignedExpertID,
		pq.Array(&c.SuggestedServiceSlugs),
		pq.Array(&c.ConvertedOrderIDs),
		&amount,
		&c.PaymentStatus,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyName.Valid {
		c.CompanyName = &companyName.String
	}
	if assignedExpertID.Valid {
		c.AssignedExpertID = &assignedExpertID.Int64
	}
	if amount.Valid {
		c.Amount = &amount.Float64
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// nonNil заменяет nil-слайс пустым, чтобы в БД писался '{}' а не NULL
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
