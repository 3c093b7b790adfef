package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/errors"
)

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size from the query string. Missing or malformed
// values fall back to the defaults and oversized pages are capped.
func ParsePagination(c *gin.Context) Pagination {
	page, pageSize := db.NormalizePage(queryInt(c, "page"), queryInt(c, "page_size"))
	return Pagination{Page: page, PageSize: pageSize}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// ParseUserIDParam parses a positive Telegram user id from a URL path parameter.
func ParseUserIDParam(c *gin.Context, paramName string) (int64, error) {
	raw := strings.TrimSpace(c.Param(paramName))
	if raw == "" {
		return 0, errors.NewValidationError(paramName + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("%s must be a positive integer", paramName))
	}
	return id, nil
}

// ParseUintParam parses a positive numeric row id from a URL path parameter.
func ParseUintParam(c *gin.Context, paramName string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(paramName)), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("%s must be a positive integer", paramName))
	}
	return uint(id), nil
}
