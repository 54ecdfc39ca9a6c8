package dashboard

// Pagination is derived from the table style and the current datasource.
type Pagination struct {
	WithPaging bool `json:"withPaging"`
	PageSize   int  `json:"pageSize"`
	PageNo     int  `json:"pageNo"`
	TotalCount int  `json:"totalCount"`
}

// DerivePagination returns nil when the widget has no table style. Page size and
// number stay zero unless paging is enabled.
func DerivePagination(cfg *WidgetConfig, ds Datasource) *Pagination {
	if cfg == nil || cfg.ChartStyles.Table == nil {
		return nil
	}
	table := cfg.ChartStyles.Table
	p := &Pagination{
		WithPaging: table.WithPaging,
		TotalCount: ds.TotalCount,
	}
	if p.WithPaging {
		p.PageSize = ds.PageSize
		if p.PageSize == 0 {
			p.PageSize = int(table.PageSize)
		}
		p.PageNo = ds.PageNo
		if p.PageNo == 0 {
			p.PageNo = 1
		}
	}
	return p
}

// NativeQuery reports whether the widget asks for raw, non-aggregated rows.
func NativeQuery(cfg *WidgetConfig) bool {
	if cfg == nil || cfg.ChartStyles.Table == nil {
		return false
	}
	return cfg.ChartStyles.Table.WithNoAggregators
}

// WithPage returns a copy carrying the requested page.
func (p *Pagination) WithPage(pageNo, pageSize int) *Pagination {
	next := Pagination{}
	if p != nil {
		next = *p
	}
	next.PageNo = pageNo
	next.PageSize = pageSize
	return &next
}

func (p *Pagination) clone() *Pagination {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// MergeQueryVariables folds the three variable sources into a `$name$` keyed map.
// Later sources win on name collisions: variables, then linkage, then global.
func MergeQueryVariables(conditions *QueryConditions) map[string]any {
	out := map[string]any{}
	if conditions == nil {
		return out
	}
	for _, group := range [][]QueryVariable{
		conditions.Variables,
		conditions.LinkageVariables,
		conditions.GlobalVariables,
	} {
		for _, v := range group {
			out["$"+v.Name+"$"] = v.Value
		}
	}
	return out
}
