// Package listing implements paginated, searchable views over collections.
//
// Two strategies back a listing: offset (the whole collection is fetched once
// and filtered/sliced in memory) and cursor (the server hands out an opaque
// next-page token). Both satisfy Pager so callers do not care which one is used.
package listing

import "context"

type Strategy string

const (
	StrategyOffset Strategy = "offset"
	StrategyCursor Strategy = "cursor"
)

// 1ページ分
type Page[T any] struct {
	Items    []T      `json:"data"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Strategy Strategy `json:"strategy"`

	// オフセット方式のみ（フィルタ後の件数）
	TotalEntries int `json:"totalEntries,omitempty"`
	TotalPages   int `json:"totalPages,omitempty"`

	// カーソル方式のみ
	NextCursor string `json:"nextCursor,omitempty"`

	HasPrev bool `json:"hasPrev"`
	HasNext bool `json:"hasNext"`
}

// どちらの方式でも同じ操作で扱う
type Pager[T any] interface {
	Strategy() Strategy
	Current() Page[T]
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Reset(ctx context.Context) error
}

// ceil(n / size)
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// [(page-1)*size, page*size) を切り出す（範囲外は空）
func Slice[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// サーバー側で一気にページを作る
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	pages := TotalPages(total, size)
	return Page[T]{
		Items:        Slice(items, page, size),
		Page:         page,
		PageSize:     size,
		Strategy:     StrategyOffset,
		TotalEntries: total,
		TotalPages:   pages,
		HasPrev:      page > 1,
		HasNext:      page < pages,
	}
}
