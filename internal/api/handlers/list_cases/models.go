package list_cases

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

// ToServiceRequest собирает параметры списка из query.
// status можно передать несколько раз или через запятую
func ToServiceRequest(query url.Values) (*models.ListCasesRequest, error) {
	req := &models.ListCasesRequest{
		CaseType: query.Get("caseType"),
		Search:   query.Get("search"),
	}

	for _, raw := range query["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}

	if v := query.Get("expertId"); v != "" {
		expertID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expertId: %w", err)
		}
		req.ExpertID = &expertID
	}

	var err error
	if req.Page, err = intParam(query, "page"); err != nil {
		return nil, err
	}
	if req.PageSize, err = intParam(query, "pageSize"); err != nil {
		return nil, err
	}

	return req, nil
}

func intParam(query url.Values, name string) (int, error) {
	v := query.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
