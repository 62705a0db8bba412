package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
)

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid id")
	}
	return uint(id), nil
}

// userIDParam parses the :id path segment as a 64-bit platform user id.
func userIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid user id")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
