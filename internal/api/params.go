package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// uintParam parses a positive id path parameter, recording a bind error on failure.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(fmt.Errorf("invalid %s %q", name, raw)).SetType(gin.ErrorTypeBind)
		return 0, false
	}
	return uint(id), true
}
