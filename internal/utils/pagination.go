package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PageParams reads page/limit query values with sane bounds.
func PageParams(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}

	return page, limit
}

func PageToOffset(page, limit int) int {
	return (page - 1) * limit
}

func NewMeta(total int64, page, limit int) Meta {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
