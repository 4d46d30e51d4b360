// Package listview implements generic filter/sort/paginate operations for
// table-style presentations of in-memory lists.
package listview

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Comparator compares two items. Direction is baked into the comparator (see
// ByString/ByTime) so that nil field values always order after defined ones,
// whatever the direction.
type Comparator[T any] func(a, b T) int

func Filter[T any](items []T, pred func(T) bool) []T {
	if pred == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a stably sorted copy of items.
func Sort[T any](items []T, cmp Comparator[T]) []T {
	if cmp == nil {
		return items
	}
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(out[i], out[j]) < 0
	})
	return out
}

// ByString builds a case-insensitive comparator over a string field; nil
// sorts after all defined values regardless of direction.
func ByString[T any](get func(T) *string, dir Direction) Comparator[T] {
	return func(a, b T) int {
		av, bv := get(a), get(b)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return 1
		case bv == nil:
			return -1
		}
		c := strings.Compare(strings.ToLower(*av), strings.ToLower(*bv))
		if dir == Desc {
			return -c
		}
		return c
	}
}

// ByTime builds a comparator over a date field compared by epoch value; nil
// sorts after all defined values regardless of direction.
func ByTime[T any](get func(T) *time.Time, dir Direction) Comparator[T] {
	return func(a, b T) int {
		av, bv := get(a), get(b)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return 1
		case bv == nil:
			return -1
		}
		var c int
		switch {
		case av.UnixNano() < bv.UnixNano():
			c = -1
		case av.UnixNano() > bv.UnixNano():
			c = 1
		}
		if dir == Desc {
			return -c
		}
		return c
	}
}

type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func Paginate[T any](items []T, pageNumber, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = 25
	}
	if pageNumber <= 0 {
		pageNumber = 1
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// View holds the presentation state of one table. Changing the active filter
// resets pagination to the first page.
type View[T any] struct {
	filter   func(T) bool
	cmp      Comparator[T]
	page     int
	pageSize int
}

func NewView[T any](pageSize int) *View[T] {
	return &View[T]{page: 1, pageSize: pageSize}
}

func (v *View[T]) SetFilter(pred func(T) bool) {
	v.filter = pred
	v.page = 1
}

func (v *View[T]) SetSort(cmp Comparator[T]) {
	v.cmp = cmp
}

func (v *View[T]) SetPage(page int) {
	if page <= 0 {
		page = 1
	}
	v.page = page
}

func (v *View[T]) PageNumber() int { return v.page }

// Apply runs filter → sort → paginate over items.
func (v *View[T]) Apply(items []T) Page[T] {
	return Paginate(v.All(items), v.page, v.pageSize)
}

// All returns the full filtered and sorted list, for exports that operate on
// the current view rather than one page.
func (v *View[T]) All(items []T) []T {
	return Sort(Filter(items, v.filter), v.cmp)
}
