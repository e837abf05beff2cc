package dispatch

import (
	"time"

	"dispatch/internal/entities"
)

const (
	// MaxGroupSize сколько заявок одного поставщика обрабатываем за раз.
	MaxGroupSize = 50
	// maxDuePerRun заявок за один запуск; остальные заберет следующий тик.
	maxDuePerRun = 1000
	// groupConcurrency поставщики обрабатываются параллельно.
	groupConcurrency = 4
)

type Settings struct {
	BatchSize int
	// Lookahead заявки с забором в этом окне отправляются заранее.
	Lookahead time.Duration
}

type Stats struct {
	Due       int
	Submitted int
	Rejected  int
	Closed    int
}

func (s *Stats) add(o Stats) {
	s.Due += o.Due
	s.Submitted += o.Submitted
	s.Rejected += o.Rejected
	s.Closed += o.Closed
}

type group struct {
	supplierID string
	requestIDs []string
}

// groupBySupplier сохраняет порядок первого появления поставщика и режет
// группы по MaxGroupSize.
func groupBySupplier(requests []entities.Request) []group {
	order := make([]string, 0)
	bySupplier := make(map[string][]string)
	for _, r := range requests {
		if _, ok := bySupplier[r.SupplierID]; !ok {
			order = append(order, r.SupplierID)
		}
		bySupplier[r.SupplierID] = append(bySupplier[r.SupplierID], r.ID)
	}

	groups := make([]group, 0, len(order))
	for _, supplierID := range order {
		ids := bySupplier[supplierID]
		for start := 0; start < len(ids); start += MaxGroupSize {
			end := min(start+MaxGroupSize, len(ids))
			groups = append(groups, group{supplierID: supplierID, requestIDs: ids[start:end]})
		}
	}
	return groups
}
