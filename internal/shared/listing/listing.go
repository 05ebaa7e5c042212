// Package listing implements offset and cursor pagination with deterministic
// sorting for financial record listings. Repositories translate a parsed Page
// into their own query shape; the transport layer emits the Link discovery
// header from the same Page.
package listing

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

var ErrValidationFailed = errors.New("invalid listing parameters")

// ValidationError carries the offending query parameter names.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Sort is a (key, direction) pair. Keys are validated against a per-resource
// allow-list; unknown keys fail closed instead of silently changing order.
type Sort struct {
	Key       string
	Direction Direction
}

// Options configures Parse for one resource.
type Options struct {
	DefaultPerPage int
	MaxPerPage     int
	DefaultSort    Sort
	SortKeys       []string
}

// Page is the parsed, validated pagination request. Exactly one of the two
// modes is active: offset (page/per_page) or cursor (since_id).
type Page struct {
	Number  int
	PerPage int
	SinceID int64
	Cursor  bool
	Sort    Sort
}

// Parse validates pagination and sorting query parameters. Presence of
// since_id selects cursor mode and overrides page/per_page.
func Parse(query url.Values, opts Options) (Page, error) {
	page := Page{
		Number:  1,
		PerPage: opts.DefaultPerPage,
		Sort:    opts.DefaultSort,
	}

	if raw := query.Get("sort"); raw != "" {
		if !allowedKey(raw, opts.SortKeys) {
			return Page{}, &ValidationError{Fields: []string{"sort"}, Reason: "unknown sort key"}
		}
		page.Sort.Key = raw
	}
	if raw := query.Get("direction"); raw != "" {
		switch strings.ToUpper(raw) {
		case string(DirectionAsc):
			page.Sort.Direction = DirectionAsc
		case string(DirectionDesc):
			page.Sort.Direction = DirectionDesc
		default:
			return Page{}, &ValidationError{Fields: []string{"direction"}, Reason: "direction must be asc or desc"}
		}
	}

	if raw := query.Get("since_id"); raw != "" {
		sinceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sinceID < 0 {
			return Page{}, &ValidationError{Fields: []string{"since_id"}, Reason: "since_id must be a non-negative integer"}
		}
		page.SinceID = sinceID
		page.Cursor = true
		return page, nil
	}

	if raw := query.Get("page"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil || number < 1 {
			return Page{}, &ValidationError{Fields: []string{"page"}, Reason: "page must be a positive integer"}
		}
		page.Number = number
	}
	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return Page{}, &ValidationError{Fields: []string{"per_page"}, Reason: "per_page must be a positive integer"}
		}
		page.PerPage = perPage
	}
	if opts.MaxPerPage > 0 && page.PerPage > opts.MaxPerPage {
		page.PerPage = opts.MaxPerPage
	}
	return page, nil
}

// Offset returns the zero-based row offset of the page window.
func (p Page) Offset() int {
	if p.Cursor {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}

// Limit returns the window size, or 0 for unbounded (cursor mode).
func (p Page) Limit() int {
	if p.Cursor {
		return 0
	}
	return p.PerPage
}

// LastPage computes the page number of the last non-empty page.
func (p Page) LastPage(total int64) int {
	if p.PerPage <= 0 {
		return 1
	}
	last := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if last < 1 {
		last = 1
	}
	return last
}

// LinkHeader renders the discovery header for offset mode: absolute URLs for
// the current, next, and last page relations. Cursor mode is self-describing
// and produces no header.
func (p Page) LinkHeader(base *url.URL, total int64) string {
	if p.Cursor {
		return ""
	}

	entries := make([]string, 0, 3)
	entries = append(entries, linkEntry(base, p.Number, p.PerPage, "current"))
	if int64(p.Number*p.PerPage) < total {
		entries = append(entries, linkEntry(base, p.Number+1, p.PerPage, "next"))
	}
	entries = append(entries, linkEntry(base, p.LastPage(total), p.PerPage, "last"))
	return strings.Join(entries, ", ")
}

func linkEntry(base *url.URL, page int, perPage int, rel string) string {
	target := *base
	target.RawQuery = fmt.Sprintf("page=%d&per_page=%d", page, perPage)
	return fmt.Sprintf("<%s>; rel=%q", target.String(), rel)
}

func allowedKey(key string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == key {
			return true
		}
	}
	return false
}
