package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
)

// uintParam reads a positive id from the path and writes a 400 when it is
// malformed.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return false
	}
	return true
}
