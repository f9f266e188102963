package domain

import "math"

// PageRequest is a 1-based page selection.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset is the number of items skipped before this page. It saturates at
// math.MaxInt instead of wrapping, so absurd page numbers land past the end.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// PageMeta describes where a page sits in the full result set.
// PrevPage and NextPage are nil at the boundaries.
type PageMeta struct {
	Page       int
	Pages      int
	TotalCount int
	PrevPage   *int
	NextPage   *int
	HasNext    bool
	HasPrev    bool
}

// NormalizePage applies defaults and bounds: page < 1 becomes 1,
// perPage < 1 becomes def, perPage above max is clamped to max (max <= 0 means unbounded).
func NormalizePage(page, perPage, def, max int) PageRequest {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if max > 0 && perPage > max {
		perPage = max
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Paginate computes the metadata for req over total items.
func Paginate(req PageRequest, total int) PageMeta {
	pages := 0
	if req.PerPage > 0 && total > 0 {
		pages = (total + req.PerPage - 1) / req.PerPage
	}

	meta := PageMeta{
		Page:       req.Page,
		Pages:      pages,
		TotalCount: total,
		HasPrev:    req.Page > 1,
		HasNext:    req.Page < pages,
	}
	if meta.HasPrev {
		prev := req.Page - 1
		meta.PrevPage = &prev
	}
	if meta.HasNext {
		next := req.Page + 1
		meta.NextPage = &next
	}
	return meta
}
