package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination bounds for list endpoints.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ParsePagination reads the offset and limit query parameters, applying
// DefaultPageLimit when limit is absent. Offset must be non-negative and
// limit must fall in [1, MaxPageLimit]; out-of-range or non-numeric values
// are an error rather than being clamped.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return offset, limit, nil
}
