package listing

import (
	"context"
	"sort"

	"github.com/samber/lo"
)

// 全件を持ってメモリ上で検索・絞り込み・切り出しをする一覧
type OffsetView[T any] struct {
	all      []T
	fields   Fields[T]
	pageSize int

	query   string
	filters map[string]func(T) bool

	filtered []T
	page     int
}

func NewOffsetView[T any](items []T, pageSize int, fields Fields[T]) *OffsetView[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	v := &OffsetView[T]{
		all:      items,
		fields:   fields,
		pageSize: pageSize,
		filters:  map[string]func(T) bool{},
	}
	v.recompute()
	return v
}

func (v *OffsetView[T]) Strategy() Strategy { return StrategyOffset }

// 再取得した全件に差し替える（条件は保持、ページは1へ）
func (v *OffsetView[T]) Replace(items []T) {
	v.all = items
	v.recompute()
}

// 差し替えるがページは保つ（ステータス更新の反映など）
func (v *OffsetView[T]) Update(items []T) {
	page := v.page
	v.all = items
	v.recompute()
	v.GoTo(page)
}

// 検索語を変えたら1ページ目へ
func (v *OffsetView[T]) SetQuery(q string) {
	v.query = q
	v.recompute()
}

func (v *OffsetView[T]) Query() string { return v.query }

// 名前付きの絞り込み（同名は上書き）。変えたら1ページ目へ
func (v *OffsetView[T]) SetFilter(name string, pred func(T) bool) {
	if pred == nil {
		delete(v.filters, name)
	} else {
		v.filters[name] = pred
	}
	v.recompute()
}

func (v *OffsetView[T]) ClearFilter(name string) {
	v.SetFilter(name, nil)
}

func (v *OffsetView[T]) recompute() {
	items := Search(v.all, v.query, v.fields)
	if len(v.filters) > 0 {
		names := lo.Keys(v.filters)
		sort.Strings(names)
		items = lo.Filter(items, func(it T, _ int) bool {
			for _, n := range names {
				if !v.filters[n](it) {
					return false
				}
			}
			return true
		})
	}
	v.filtered = items
	v.page = 1
}

// 1..TotalPages に丸める
func (v *OffsetView[T]) GoTo(page int) {
	pages := TotalPages(len(v.filtered), v.pageSize)
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	v.page = page
}

func (v *OffsetView[T]) Next(ctx context.Context) error {
	v.GoTo(v.page + 1)
	return nil
}

func (v *OffsetView[T]) Prev(ctx context.Context) error {
	v.GoTo(v.page - 1)
	return nil
}

func (v *OffsetView[T]) Reset(ctx context.Context) error {
	v.query = ""
	v.filters = map[string]func(T) bool{}
	v.recompute()
	return nil
}

func (v *OffsetView[T]) Current() Page[T] {
	p := Paginate(v.filtered, v.page, v.pageSize)
	return p
}

// フィルタ後の全件
func (v *OffsetView[T]) Filtered() []T {
	return v.filtered
}
