package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrIllegalEditorMove = errors.New("illegal editor move")

type EditorState int

const (
	Viewing EditorState = iota
	Editing
	Saving
)

func (s EditorState) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("EditorState(%d)", int(s))
	}
}

// 保存して、サーバーが確定した値を返す
type SaveFunc func(ctx context.Context, field, draft string) (string, error)

// 1項目の編集状態 Viewing → Editing → Saving → Viewing
// 保存に失敗したら下書きを持ったままEditingへ戻る
type FieldEditor struct {
	mu      sync.Mutex
	field   string
	state   EditorState
	value   string
	draft   string
	lastErr error
}

func NewFieldEditor(field, value string) *FieldEditor {
	return &FieldEditor{field: field, value: value}
}

func (e *FieldEditor) Field() string { return e.field }

func (e *FieldEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// 確定済みの値
func (e *FieldEditor) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *FieldEditor) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// 直近の保存失敗（成功したら消える）
func (e *FieldEditor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *FieldEditor) illegal(move string) error {
	return fmt.Errorf("%w: %s while %s", ErrIllegalEditorMove, move, e.state)
}

func (e *FieldEditor) Edit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Viewing {
		return e.illegal("edit")
	}
	e.state = Editing
	e.draft = e.value
	e.lastErr = nil
	return nil
}

func (e *FieldEditor) SetDraft(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Editing {
		return e.illegal("set draft")
	}
	e.draft = v
	return nil
}

// 下書きを捨てる
func (e *FieldEditor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Editing {
		return e.illegal("cancel")
	}
	e.state = Viewing
	e.draft = ""
	e.lastErr = nil
	return nil
}

// 保存中はロックを持たない（他の操作はErrIllegalEditorMove）
func (e *FieldEditor) Save(ctx context.Context, save SaveFunc) error {
	e.mu.Lock()
	if e.state != Editing {
		err := e.illegal("save")
		e.mu.Unlock()
		return err
	}
	e.state = Saving
	draft := e.draft
	e.mu.Unlock()

	confirmed, err := save(ctx, e.field, draft)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = Editing
		e.lastErr = err
		return err
	}
	e.state = Viewing
	e.value = confirmed
	e.draft = ""
	e.lastErr = nil
	return nil
}

// サーバーから読み直した値を反映（編集中の項目は触らない）
func (e *FieldEditor) Refresh(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Viewing {
		e.value = v
	}
}
