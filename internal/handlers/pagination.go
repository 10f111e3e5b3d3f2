package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageParams struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (p pageParams) Offset() int { return (p.Page - 1) * p.PageSize }

// parsePageParams reads page/pageSize/sortBy/sortOrder query parameters,
// clamping out-of-range values instead of rejecting them.
func parsePageParams(c *gin.Context, defaultSortBy string) pageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	order := c.DefaultQuery("sortOrder", "desc")
	if order != "asc" {
		order = "desc"
	}

	return pageParams{
		Page:      page,
		PageSize:  size,
		SortBy:    c.DefaultQuery("sortBy", defaultSortBy),
		SortOrder: order,
	}
}

func pagination(p pageParams, total int64) gin.H {
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return gin.H{
		"totalCount":  total,
		"currentPage": p.Page,
		"pageSize":    p.PageSize,
		"totalPages":  totalPages,
		"hasNextPage": p.Page < totalPages,
		"hasPrevPage": p.Page > 1,
	}
}
