package listing

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// 検索対象のフィールドを返す
type Fields[T any] func(T) []string

// 住所は1フィールドとして検索する（サーバーとコンソールで同じ並び）
func AddressLine(street, city, governorate string) string {
	return strings.Join(lo.Compact([]string{street, city, governorate}), " ")
}

// 空白で分割した検索語
func Tokenize(q string) []string {
	return strings.Fields(q)
}

// すべての語が、どれか1つのフィールドに部分一致（大文字小文字は無視）
func Match(fields []string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	folder := cases.Fold()
	folded := lo.Map(fields, func(f string, _ int) string {
		return folder.String(f)
	})
	return lo.EveryBy(terms, func(term string) bool {
		t := folder.String(term)
		return lo.SomeBy(folded, func(f string) bool {
			return strings.Contains(f, t)
		})
	})
}

// qに一致するものだけ（元の順序を保つ）
func Search[T any](items []T, q string, fields Fields[T]) []T {
	terms := Tokenize(q)
	if len(terms) == 0 || fields == nil {
		return append([]T{}, items...)
	}
	return lo.Filter(items, func(it T, _ int) bool {
		return Match(fields(it), terms)
	})
}
