package cases

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_NextSequence(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO case_number_counters (year,last_seq) VALUES ($1,$2) " +
			"ON CONFLICT (year) DO UPDATE SET last_seq = case_number_counters.last_seq + 1 RETURNING last_seq")).
		WithArgs(2025, 1).
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(42))

	seq, err := repo.NextSequence(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, 42, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateNumber(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO consultation_cases")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "consultation_cases_case_number_key"})

	_, err := repo.Create(context.Background(), &domain.ConsultationCase{
		CaseNumber: "CASE-2025-0001",
		CustomerID: 1,
		Status:     domain.CaseStatusSubmitted,
	})

	assert.ErrorIs(t, err, ErrDuplicateCaseNumber)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM consultation_cases WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(3), "CASE-2025-0003", int64(10), "Ivan", "ivan@example.com", "+79990000000",
			nil, "llc", "tax", "Tax question", "details",
			"{a.pdf,b.pdf}", "under_review", int64(7), "{}", "{}",
			nil, "not_required", now, now,
		))

	c, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "CASE-2025-0003", c.CaseNumber)
	assert.Equal(t, domain.CaseStatusUnderReview, c.Status)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, c.Attachments)
	assert.Nil(t, c.CompanyName)
	assert.Nil(t, c.Amount)
	require.NotNil(t, c.AssignedExpertID)
	assert.Equal(t, int64(7), *c.AssignedExpertID)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM consultation_cases WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestRepository_GetByID_LockConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM consultation_cases WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnError(&pq.Error{Code: "40P01"})

	_, err := repo.GetByID(context.Background(), 11)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrScanRow)
}

func TestRepository_Count_AppliesFilter(t *testing.T) {
	repo, mock := newMock(t)

	q := domain.CaseQuery{
		Statuses: []domain.CaseStatus{domain.CaseStatusSubmitted, domain.CaseStatusUnderReview},
		CaseType: "tax",
		ExpertID: ptr.Ptr(int64(7)),
		Search:   "acme",
	}.Normalize()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM consultation_cases WHERE status IN ($1,$2) AND case_type = $3 " +
			"AND assigned_expert_id = $4 AND (case_number ILIKE $5 OR title ILIKE $6 OR contact_name ILIKE $7)")).
		WithArgs("submitted", "under_review", "tax", int64(7), "%acme%", "%acme%", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count_SearchMatchesWildcardsLiterally(t *testing.T) {
	repo, mock := newMock(t)

	q := domain.CaseQuery{Search: `CASE_2025 100%\`}.Normalize()

	pattern := `%CASE\_2025 100\%\\%`
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM consultation_cases WHERE (case_number ILIKE $1 OR title ILIKE $2 OR contact_name ILIKE $3)")).
		WithArgs(pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	total, err := repo.Count(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Paginates(t *testing.T) {
	repo, mock := newMock(t)

	q := domain.CaseQuery{Page: 3, PageSize: 10}.Normalize()

	mock.ExpectQuery(regexp.QuoteMeta("FROM consultation_cases ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 20")).
		WillReturnRows(sqlmock.NewRows(columns))

	result, err := repo.List(context.Background(), q)

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
