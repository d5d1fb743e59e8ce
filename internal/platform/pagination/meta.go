package pagination

// Meta is the pagination block returned alongside every page of results.
type Meta struct {
	Page  int `json:"page"  doc:"Current page"`
	Limit int `json:"limit" doc:"Page size"`
	Total int `json:"total" doc:"Total matching items"`
	Pages int `json:"pages" doc:"Total pages, ceil(total/limit)"`
}

// NewMeta builds the pagination block for total items viewed through p.
func NewMeta(p Params, total int) Meta {
	n := p.Normalize()
	return Meta{
		Page:  n.Page,
		Limit: n.Limit,
		Total: total,
		Pages: Pages(total, n.Limit),
	}
}

// Pages returns ceil(total/limit). A non-positive limit yields 0.
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
