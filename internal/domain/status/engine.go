// Package status owns status vocabularies and decides which status changes are legal.
package status

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

// 変更を拒否した理由を持つエラー
type TransitionError struct {
	From   string
	To     string
	Reason string
	// 終端状態からの変更で拒否されたか
	Terminal bool
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q: %s", e.From, e.To, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// 操作する人（ID と ロール）
type Actor struct {
	ID   string
	Role string
}

// ステータスを持つレコード（ポインタで渡す）
type Stateful[S ~string] interface {
	CurrentStatus() S
	SetStatus(S)
}

// from → to を許すかどうか。許さないなら理由を返す
type Policy[S ~string] interface {
	Check(from, to S) error
}

// 管理者はどの状態からどの状態へも変えられる
type OpenPolicy[S ~string] struct{}

func (OpenPolicy[S]) Check(from, to S) error {
	return nil
}

// 終端状態に入ったら変更できない
type TerminalPolicy[S ~string] struct {
	Terminal []S
}

func (p TerminalPolicy[S]) Check(from, to S) error {
	if slices.Contains(p.Terminal, from) {
		return &TransitionError{
			From:     string(from),
			To:       string(to),
			Reason:   fmt.Sprintf("%q is a terminal status", string(from)),
			Terminal: true,
		}
	}
	return nil
}

// 語彙・ロール・ポリシーをまとめたエンジン
type Engine[S ~string] struct {
	vocabulary []S
	roles      []string
	policy     Policy[S]
}

func NewEngine[S ~string](vocabulary []S, roles []string, policy Policy[S]) *Engine[S] {
	if policy == nil {
		policy = OpenPolicy[S]{}
	}
	return &Engine[S]{
		vocabulary: slices.Clone(vocabulary),
		roles:      slices.Clone(roles),
		policy:     policy,
	}
}

// 表示順の語彙
func (e *Engine[S]) Statuses() []S {
	return slices.Clone(e.vocabulary)
}

func (e *Engine[S]) Valid(s S) bool {
	return slices.Contains(e.vocabulary, s)
}

// ワイヤ文字列をそのまま照合する（大文字小文字・空白も区別）
func (e *Engine[S]) Parse(s string) (S, error) {
	st := S(s)
	if !e.Valid(st) {
		var zero S
		return zero, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// from → to の判定のみ。同じなら changed=false で成功
func (e *Engine[S]) Check(from, to S, actor Actor) (changed bool, err error) {
	if !e.Valid(to) {
		return false, &TransitionError{From: string(from), To: string(to), Reason: "unknown status"}
	}
	if !slices.Contains(e.roles, actor.Role) {
		return false, &TransitionError{From: string(from), To: string(to), Reason: fmt.Sprintf("role %q may not change status", actor.Role)}
	}
	if from == to {
		return false, nil
	}
	if err := e.policy.Check(from, to); err != nil {
		var te *TransitionError
		if errors.As(err, &te) {
			return false, te
		}
		return false, &TransitionError{From: string(from), To: string(to), Reason: err.Error()}
	}
	return true, nil
}

// 判定して通ればrecを書き換える
func (e *Engine[S]) Apply(rec Stateful[S], to S, actor Actor) (changed bool, err error) {
	changed, err = e.Check(rec.CurrentStatus(), to, actor)
	if err != nil || !changed {
		return false, err
	}
	rec.SetStatus(to)
	return true, nil
}
