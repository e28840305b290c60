package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"kidcare/internal/domain/status"
	repo "kidcare/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
	// 入力エラーのときだけ（フィールド名 → メッセージ）
	Fields map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 入力エラーをまとめて返すための入れ物（1つ目で止めない）
type ValidationErrors map[string]string

// 同じフィールドは最初のメッセージを残す
func (v ValidationErrors) Add(field, message string) {
	if _, ok := v[field]; !ok {
		v[field] = message
	}
}

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

// 空ならnil。あれば400
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &HTTPError{Status: http.StatusBadRequest, Message: "validation failed", Fields: v}
}

var errDB = NewHTTPError(http.StatusInternalServerError, "db error")

// repositoryのエラーをHTTPErrorへ
func fromRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrDuplicate):
		return NewHTTPError(http.StatusConflict, "conflict")
	default:
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return errDB
	}
}

// 終端ポリシーの拒否は409、それ以外は400
func fromTransitionError(err error) error {
	var te *status.TransitionError
	if errors.As(err, &te) {
		if te.Terminal {
			return NewHTTPError(http.StatusConflict, te.Error())
		}
		return NewHTTPError(http.StatusBadRequest, te.Error())
	}
	return fromRepoError(err)
}

// 監査ログ用のJSON
func auditJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
