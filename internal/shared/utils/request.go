package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/shared/apperror"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// PageQuery reads ?page= and ?page_size=. Unparsable values become zero and
// are normalised by the pagination package.
func PageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	return page, pageSize
}

// ParseOptionalDate parses s as a calendar date. Blank input yields nil.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, apperror.Invalid(field, "must be a date formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// FormatDate renders an optional date in DateLayout.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// OptionalString returns nil for blank input.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
