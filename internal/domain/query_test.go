package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseQuery_Normalize(t *testing.T) {
	q := CaseQuery{
		Statuses: []CaseStatus{CaseStatusSubmitted, "archived"},
		Search:   "  CASE-2026 ",
		Page:     0,
		PageSize: 500,
	}

	n := q.Normalize()

	assert.Equal(t, []CaseStatus{CaseStatusSubmitted}, n.Statuses)
	assert.Equal(t, "CASE-2026", n.Search)
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, MaxPageSize, n.PageSize)
	assert.Equal(t, 0, n.Offset())

	// исходный объект не изменяется
	assert.Equal(t, 0, q.Page)
	assert.Len(t, q.Statuses, 2)
}

func TestNewPage(t *testing.T) {
	p := NewPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPage(0, 1, 20)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPage(40, 2, 20)
	assert.False(t, p.HasNext)
}
