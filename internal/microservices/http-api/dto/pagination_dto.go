package dto

type PaginatedResponse[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

func NewPaginatedResponse[T any](results []T, page, pageSize int, total int64) PaginatedResponse[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}
	if results == nil {
		results = []T{}
	}

	return PaginatedResponse[T]{
		Count:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Results:    results,
	}
}
