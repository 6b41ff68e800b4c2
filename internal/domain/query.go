package domain

import "strings"

// CaseQuery неизменяемые параметры выборки обращений для админ-панели.
// Передается по значению; Normalize возвращает новую копию
type CaseQuery struct {
	Statuses   []CaseStatus
	CaseType   string
	ExpertID   *int64
	CustomerID *int64
	Search     string // Поиск по номеру, заголовку и имени клиента
	Page       int    // Начиная с 1
	PageSize   int
}

// Normalize приводит параметры к допустимым значениям
func (q CaseQuery) Normalize() CaseQuery {
	out := q
	out.Search = strings.TrimSpace(q.Search)
	out.CaseType = strings.TrimSpace(q.CaseType)

	if q.Statuses != nil {
		out.Statuses = make([]CaseStatus, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			if s.IsValid() {
				out.Statuses = append(out.Statuses, s)
			}
		}
	}

	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize <= 0 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	return out
}

// Offset возвращает смещение для SQL
func (q CaseQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page информация о странице, вычисленная по отфильтрованному количеству
type Page struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPage вычисляет пагинацию по общему числу отфильтрованных записей
func NewPage(total, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	totalPages := (total + size - 1) / size
	return Page{
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}
