package usecase

import (
	"net/http"

	"github.com/google/uuid"

	"kidcare/internal/listing"
)

// 一覧レスポンス（limit無しなら全件、あればそのページ）
type ListOutput[T any] struct {
	Data         []T `json:"data"`
	TotalEntries int `json:"totalEntries"`
	Page         int `json:"page,omitempty"`
	TotalPages   int `json:"totalPages,omitempty"`
}

// カーソル一覧レスポンス（最後のページではnextCursorが無い）
type CursorOutput[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
}

const maxLimit = 100

// 共通の一覧入力
type ListInput struct {
	Q     string
	Page  int
	Limit int
}

func (in ListInput) validate() error {
	if in.Page < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 0 || in.Limit > maxLimit {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 200 {
		return NewHTTPError(http.StatusBadRequest, "q too long")
	}
	return nil
}

func pageOf[T any](items []T, page, limit int) ListOutput[T] {
	if items == nil {
		items = []T{}
	}
	if limit <= 0 {
		return ListOutput[T]{Data: items, TotalEntries: len(items)}
	}
	if page < 1 {
		page = 1
	}
	p := listing.Paginate(items, page, limit)
	return ListOutput[T]{
		Data:         p.Items,
		TotalEntries: p.TotalEntries,
		Page:         p.Page,
		TotalPages:   p.TotalPages,
	}
}

// IDカラムはすべてuuid型（ハイフン区切りの36文字だけ通す）
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// 時刻順に並ぶID（カーソルのキーにも使う）
var newID = func() string {
	return uuid.Must(uuid.NewV7()).String()
}
