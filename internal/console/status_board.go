package console

import (
	"context"
	"errors"
	"sync"

	"kidcare/internal/listing"
)

// 同じレコードの更新が返ってくる前に次を出した
var ErrUpdateInFlight = errors.New("status update already in flight")

// サーバーにステータス変更を依頼し、確定したレコードを返す
type StatusUpdater[T any] func(ctx context.Context, id, to string) (T, error)

// 管理画面のステータス一覧。更新中のレコードをIDごとに覚えておく
type StatusBoard[T any] struct {
	mu       sync.Mutex
	inFlight map[string]bool
	records  []T
	view     *listing.OffsetView[T]

	idOf     func(T) string
	statusOf func(T) string
	update   StatusUpdater[T]
}

func NewStatusBoard[T any](records []T, pageSize int, fields listing.Fields[T], idOf, statusOf func(T) string, update StatusUpdater[T]) *StatusBoard[T] {
	return &StatusBoard[T]{
		inFlight: map[string]bool{},
		records:  records,
		view:     listing.NewOffsetView(records, pageSize, fields),
		idOf:     idOf,
		statusOf: statusOf,
		update:   update,
	}
}

// 再取得した全件に差し替える（1ページ目へ）
func (b *StatusBoard[T]) Load(records []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = records
	b.view.Replace(records)
}

func (b *StatusBoard[T]) SetQuery(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.SetQuery(q)
}

// 空なら絞り込みを外す
func (b *StatusBoard[T]) SetStatusFilter(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s == "" {
		b.view.ClearFilter("status")
		return
	}
	b.view.SetFilter("status", func(r T) bool { return b.statusOf(r) == s })
}

func (b *StatusBoard[T]) Current() listing.Page[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Current()
}

func (b *StatusBoard[T]) Next(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Next(ctx)
}

func (b *StatusBoard[T]) Prev(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Prev(ctx)
}

func (b *StatusBoard[T]) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.Reset(ctx)
}

func (b *StatusBoard[T]) Strategy() listing.Strategy { return listing.StrategyOffset }

// 更新中ならボタンを押せない
func (b *StatusBoard[T]) Updating(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight[id]
}

func (b *StatusBoard[T]) Record(id string) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.records {
		if b.idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// 通信中はロックを持たない。失敗したら一覧は最後に確定した値のまま
func (b *StatusBoard[T]) UpdateStatus(ctx context.Context, id, to string) (T, error) {
	var zero T

	b.mu.Lock()
	if b.inFlight[id] {
		b.mu.Unlock()
		return zero, ErrUpdateInFlight
	}
	b.inFlight[id] = true
	b.mu.Unlock()

	updated, err := b.update(ctx, id, to)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, id)
	if err != nil {
		return zero, err
	}

	records := make([]T, len(b.records))
	copy(records, b.records)
	for i, r := range records {
		if b.idOf(r) == id {
			records[i] = updated
		}
	}
	b.records = records
	b.view.Update(records)
	return updated, nil
}

var _ listing.Pager[int] = (*StatusBoard[int])(nil)
