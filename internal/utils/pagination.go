package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// GetPaginationParams extracts and validates the pagination[page] and
// pagination[pageSize] query parameters
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("pagination[page]", strconv.Itoa(constants.MinPageSize)))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pagination[pageSize]", strconv.Itoa(constants.DefaultPageSize)))

	return NewPaginationParams(page, pageSize)
}

// NewPaginationParams clamps page and pageSize into range and computes the offset
func NewPaginationParams(page, pageSize int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if pageSize < constants.MinPageSize || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// Response builds the pagination metadata for a total record count
func (p PaginationParams) Response(total int64) PaginationResponse {
	pageCount := int(total) / p.PageSize
	if int(total)%p.PageSize > 0 {
		pageCount++
	}

	return PaginationResponse{
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: pageCount,
		Total:     total,
	}
}
