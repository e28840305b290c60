package listing

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// cursor以降をlimit件。次が無ければnextは空
type CursorFetcher[T any] func(ctx context.Context, cursor string, limit int) (items []T, next string, err error)

// サーバーのカーソルAPIを前後に移動する一覧
// 戻るために使ったカーソルを積んでおく
type CursorView[T any] struct {
	fetch CursorFetcher[T]
	limit int

	history []string
	cursor  string
	items   []T
	next    string
	loaded  bool
}

func NewCursorView[T any](fetch CursorFetcher[T], limit int) *CursorView[T] {
	if limit <= 0 {
		limit = 10
	}
	return &CursorView[T]{fetch: fetch, limit: limit}
}

func (v *CursorView[T]) Strategy() Strategy { return StrategyCursor }

// 取得に失敗したら状態は変えない
func (v *CursorView[T]) load(ctx context.Context, cursor string) error {
	items, next, err := v.fetch(ctx, cursor, v.limit)
	if err != nil {
		return err
	}
	v.cursor = cursor
	v.items = items
	v.next = next
	v.loaded = true
	return nil
}

// 1ページ目から読み直す
func (v *CursorView[T]) Reset(ctx context.Context) error {
	if err := v.load(ctx, ""); err != nil {
		return err
	}
	v.history = nil
	return nil
}

func (v *CursorView[T]) Next(ctx context.Context) error {
	if !v.loaded {
		return v.Reset(ctx)
	}
	if v.next == "" {
		return nil
	}
	prev := v.cursor
	if err := v.load(ctx, v.next); err != nil {
		return err
	}
	v.history = append(v.history, prev)
	return nil
}

func (v *CursorView[T]) Prev(ctx context.Context) error {
	if len(v.history) == 0 {
		return nil
	}
	top := v.history[len(v.history)-1]
	if err := v.load(ctx, top); err != nil {
		return err
	}
	v.history = v.history[:len(v.history)-1]
	return nil
}

// 積んでいるカーソルの数（= 今のページ番号 - 1）
func (v *CursorView[T]) Depth() int {
	return len(v.history)
}

func (v *CursorView[T]) Current() Page[T] {
	items := v.items
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       len(v.history) + 1,
		PageSize:   v.limit,
		Strategy:   StrategyCursor,
		NextCursor: v.next,
		HasPrev:    len(v.history) > 0,
		HasNext:    v.next != "",
	}
}

// 最後に返したキーを不透明なトークンにする
func EncodeCursor(key string) string {
	if key == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func DecodeCursor(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if len(b) == 0 {
		return "", ErrInvalidCursor
	}
	return string(b), nil
}
