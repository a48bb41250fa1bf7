package httpx

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	listPageSize = 20
	maxPageSize  = 100
)

// Pagination is the pager shown under list views.
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	PrevURL    string
	NextURL    string
}

// pageRequest is the page the client asked for.
type pageRequest struct {
	Page     int
	PageSize int
}

func parsePageRequest(q url.Values) pageRequest {
	p := pageRequest{Page: 1, PageSize: listPageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= maxPageSize {
		p.PageSize = n
	}
	return p
}

// LimitAndOffset returns the repository bounds for the page.
func (p pageRequest) LimitAndOffset() (int, int) {
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// paginate builds the pager for a page of n items out of total.
func paginate(basePath string, q url.Values, p pageRequest, n, total int) Pagination {
	_, offset := p.LimitAndOffset()
	pg := Pagination{
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
		HasPrev:  p.Page > 1,
		HasNext:  offset+n < total,
	}
	if n > 0 {
		pg.StartIndex = offset + 1
		pg.EndIndex = offset + n
	}
	if pg.HasPrev {
		pg.PrevURL = buildPageURL(basePath, q, p.Page-1)
	}
	if pg.HasNext {
		pg.NextURL = buildPageURL(basePath, q, p.Page+1)
	}
	return pg
}

// buildPageURL keeps the current filters and replaces the page number.
// htmx bookkeeping params and empty values are dropped.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if k == "page" || strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				qq.Add(k, s)
			}
		}
	}
	if page > 1 {
		qq.Set("page", strconv.Itoa(page))
	}
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}
