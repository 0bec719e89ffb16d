package dto

import "github.com/yukikurage/okr-dashboard/internal/utils"

// DataResponse wraps a single resource the way the content API does.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ListMeta carries collection metadata
type ListMeta struct {
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ListResponse represents a paginated collection
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta ListMeta `json:"meta"`
}

// NewListResponse builds a ListResponse for one page of items
func NewListResponse[T any](items []T, params utils.PaginationParams, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data: items,
		Meta: ListMeta{Pagination: params.Response(total)},
	}
}

// MessageResponse is returned by endpoints without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}
