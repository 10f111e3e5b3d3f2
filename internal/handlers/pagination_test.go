package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageFrom(t *testing.T, query string) pageParams {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return parsePageParams(c, "createdAt")
}

func TestParsePageParams(t *testing.T) {
	p := pageFrom(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Equal(t, 0, p.Offset())

	p = pageFrom(t, "page=3&pageSize=10&sortBy=volume24hUSD&sortOrder=asc")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, "volume24hUSD", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, 20, p.Offset())

	// out-of-range values are clamped, not rejected
	p = pageFrom(t, "page=-1&pageSize=9999&sortOrder=sideways")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPageSize, p.PageSize)
	assert.Equal(t, "desc", p.SortOrder)
}

func TestPagination(t *testing.T) {
	p := pageParams{Page: 2, PageSize: 20}
	meta := pagination(p, 45)

	assert.Equal(t, int64(45), meta["totalCount"])
	assert.Equal(t, 2, meta["currentPage"])
	assert.Equal(t, 3, meta["totalPages"])
	assert.Equal(t, true, meta["hasNextPage"])
	assert.Equal(t, true, meta["hasPrevPage"])

	meta = pagination(pageParams{Page: 1, PageSize: 20}, 0)
	assert.Equal(t, 0, meta["totalPages"])
	assert.Equal(t, false, meta["hasNextPage"])
	assert.Equal(t, false, meta["hasPrevPage"])
}
