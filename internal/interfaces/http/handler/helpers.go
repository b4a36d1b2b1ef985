package handler

import (
	"github.com/reponha/backend/internal/domain/shared"
	"github.com/reponha/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// parseFilter builds a repository filter from the standard list query
// parameters plus any named filter keys (copied verbatim when present).
func parseFilter(c *gin.Context, filterKeys ...string) (shared.Filter, error) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search

	for _, key := range filterKeys {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}
	return filter, nil
}
