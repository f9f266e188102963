package domain

import (
	"math"
	"testing"
)

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr(i int) *int { return &i }

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage int
		want          PageRequest
	}{
		{name: "defaults", page: 0, perPage: 0, want: PageRequest{Page: 1, PerPage: 5}},
		{name: "negative page", page: -3, perPage: 10, want: PageRequest{Page: 1, PerPage: 10}},
		{name: "clamped per page", page: 2, perPage: 1000, want: PageRequest{Page: 2, PerPage: 100}},
		{name: "explicit values", page: 3, perPage: 7, want: PageRequest{Page: 3, PerPage: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePage(tt.page, tt.perPage, 5, 100)
			if got != tt.want {
				t.Errorf("NormalizePage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		req   PageRequest
		total int
		want  PageMeta
	}{
		{
			name:  "empty result set",
			req:   PageRequest{Page: 1, PerPage: 5},
			total: 0,
			want:  PageMeta{Page: 1, Pages: 0, TotalCount: 0},
		},
		{
			name:  "first of three",
			req:   PageRequest{Page: 1, PerPage: 5},
			total: 12,
			want:  PageMeta{Page: 1, Pages: 3, TotalCount: 12, NextPage: ptr(2), HasNext: true},
		},
		{
			name:  "middle page",
			req:   PageRequest{Page: 2, PerPage: 5},
			total: 12,
			want: PageMeta{Page: 2, Pages: 3, TotalCount: 12,
				PrevPage: ptr(1), NextPage: ptr(3), HasNext: true, HasPrev: true},
		},
		{
			name:  "last page",
			req:   PageRequest{Page: 3, PerPage: 5},
			total: 12,
			want:  PageMeta{Page: 3, Pages: 3, TotalCount: 12, PrevPage: ptr(2), HasPrev: true},
		},
		{
			name:  "beyond last page",
			req:   PageRequest{Page: 9, PerPage: 5},
			total: 12,
			want:  PageMeta{Page: 9, Pages: 3, TotalCount: 12, PrevPage: ptr(8), HasPrev: true},
		},
		{
			name:  "exact multiple",
			req:   PageRequest{Page: 2, PerPage: 5},
			total: 10,
			want:  PageMeta{Page: 2, Pages: 2, TotalCount: 10, PrevPage: ptr(1), HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.req, tt.total)
			if got.Page != tt.want.Page || got.Pages != tt.want.Pages || got.TotalCount != tt.want.TotalCount {
				t.Errorf("Paginate() = %+v, want %+v", got, tt.want)
			}
			if got.HasNext != tt.want.HasNext || got.HasPrev != tt.want.HasPrev {
				t.Errorf("Paginate() has_next/has_prev = %v/%v, want %v/%v",
					got.HasNext, got.HasPrev, tt.want.HasNext, tt.want.HasPrev)
			}
			if !intPtrEqual(got.PrevPage, tt.want.PrevPage) || !intPtrEqual(got.NextPage, tt.want.NextPage) {
				t.Errorf("Paginate() prev/next mismatch: got %v/%v", got.PrevPage, got.NextPage)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	if got := (PageRequest{Page: 3, PerPage: 5}).Offset(); got != 10 {
		t.Errorf("Offset() = %d, want 10", got)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{name: "first page", req: PageRequest{Page: 1, PerPage: 5}, want: 0},
		{name: "third page", req: PageRequest{Page: 3, PerPage: 5}, want: 10},
		{name: "zero per page", req: PageRequest{Page: 4, PerPage: 0}, want: 0},
		{name: "saturates instead of wrapping", req: PageRequest{Page: (1 << 61) + 1, PerPage: 5}, want: math.MaxInt},
		{name: "largest page", req: PageRequest{Page: math.MaxInt, PerPage: 100}, want: math.MaxInt},
		{name: "exact product still fits", req: PageRequest{Page: math.MaxInt/2 + 1, PerPage: 2}, want: math.MaxInt - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}
