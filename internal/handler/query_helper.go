package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func boolQuery(c *gin.Context, name string) *bool {
	raw := strings.ToLower(strings.TrimSpace(c.Query(name)))
	switch raw {
	case "true":
		val := true
		return &val
	case "false":
		val := false
		return &val
	default:
		return nil
	}
}

func pageQuery(c *gin.Context) (page, size int) {
	page, size = 1, 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}
