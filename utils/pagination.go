package utils

import (
	"errors"
	"strconv"

	"funnelapi/config"
	"funnelapi/errs"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageParams is a 1-indexed page request.
type PageParams struct {
	Page     int
	PageSize int
}

// ParsePageParams reads page and pageSize from the query string and applies configured defaults.
func ParsePageParams(c *fiber.Ctx) (PageParams, error) {
	var p PageParams
	for name, dst := range map[string]*int{"page": &p.Page, "pageSize": &p.PageSize} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return PageParams{}, &errs.ValidationError{Err: errors.New(name + " must be a positive integer")}
		}
		*dst = n
	}
	return p.Normalize(config.AppConfig.DefaultPageSize, config.AppConfig.MaxPageSize), nil
}

// Normalize fills in defaults and clamps the page size.
func (p PageParams) Normalize(defaultSize, maxSize int) PageParams {
	if defaultSize < 1 {
		defaultSize = defaultPageSize
	}
	if maxSize < 1 {
		maxSize = maxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func (p PageParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

func (p PageParams) Limit() int {
	return p.PageSize
}

func TotalPages(count int64, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}

// PaginatedResponse structure for paginated results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Count      int64       `json:"count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
