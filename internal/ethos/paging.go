package ethos

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
)

// Page is a requested slice of a collection.
type Page struct {
	Offset int
	Limit  int
}

// Pager reads paging parameters and writes the paging headers.
type Pager struct {
	// MaxPageSize caps every route's page size.
	MaxPageSize int
	// IncludeSelf adds a rel="self" entry to the Link header.
	IncludeSelf bool
}

func (p Pager) limitFor(pageSize int) int {
	if p.MaxPageSize > 0 && p.MaxPageSize < pageSize {
		return p.MaxPageSize
	}
	return pageSize
}

// Parse reads offset and limit. A missing or zero limit means the route's
// page size, and larger limits are reduced to it.
func (p Pager) Parse(r *http.Request, pageSize int) (Page, error) {
	maxSize := p.limitFor(pageSize)
	page := Page{Limit: maxSize}

	q := r.URL.Query()
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Page{}, apperr.Argument("offset must be a non-negative integer, got '%s'", s)
		}
		page.Offset = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Page{}, apperr.Argument("limit must be a non-negative integer, got '%s'", s)
		}
		if n > 0 && n < maxSize {
			page.Limit = n
		}
	}
	return page, nil
}

// WriteHeaders sets X-Total-Count, X-Max-Page-Size and the RFC 5988 Link
// header for a page of total items.
func (p Pager) WriteHeaders(w http.ResponseWriter, r *http.Request, page Page, pageSize, total int) {
	h := w.Header()
	h.Set("X-Total-Count", strconv.Itoa(total))
	h.Set("X-Max-Page-Size", strconv.Itoa(p.limitFor(pageSize)))

	if page.Limit <= 0 {
		return
	}

	var links []string
	link := func(offset int, rel string) {
		links = append(links, fmt.Sprintf("<%s>; rel=\"%s\"", pageURL(r, offset, page.Limit), rel))
	}

	last := 0
	if total > 0 {
		last = ((total - 1) / page.Limit) * page.Limit
	}

	if p.IncludeSelf {
		link(page.Offset, "self")
	}
	link(0, "first")
	if page.Offset > 0 {
		prev := page.Offset - page.Limit
		if prev < 0 {
			prev = 0
		}
		link(prev, "prev")
	}
	if page.Offset+page.Limit < total {
		link(page.Offset+page.Limit, "next")
	}
	link(last, "last")

	h.Set("Link", strings.Join(links, ", "))
}

func pageURL(r *http.Request, offset, limit int) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String()
}

// Slice returns the page of items, for collections that are built in
// memory rather than paged by storage.
func Slice[T any](items []T, page Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}
