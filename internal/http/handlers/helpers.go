package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/validation"
)

// BindJSON binds and validates the body into dst; on failure it records a
// VALIDATION_FAILED error and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Fail(c, validation.AsAppError(err, dst))
		return false
	}
	return true
}

// QueryInt returns def for a missing or malformed value.
func QueryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func userID(c *gin.Context) string {
	p, _ := middleware.CurrentPrincipal(c)
	return p.UserID
}
