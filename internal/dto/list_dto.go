package dto

// ListParams captures the pagination window shared by every collection endpoint.
type ListParams struct {
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// ListResponse is the page envelope returned by every collection endpoint.
// Total counts every row matching the filters, before the window is applied.
type ListResponse[T any] struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Items  []T   `json:"items"`
}

// NewListResponse builds a page, never serialising items as null.
func NewListResponse[T any](items []T, total int64, params ListParams) ListResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return ListResponse[T]{
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
		Items:  items,
	}
}
