package console

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// 管理者が直せる項目
var ProfileFields = []string{"name", "phone", "governorate", "city", "street", "role", "is_active"}

type UserFieldUpdater interface {
	UpdateUserField(ctx context.Context, id, field, value string) (User, error)
}

// 利用者・担当者の編集画面。項目ごとにFieldEditorを持つ
type ProfileEditor struct {
	mu      sync.Mutex
	user    User
	editors map[string]*FieldEditor
	to      UserFieldUpdater
}

func NewProfileEditor(u User, to UserFieldUpdater) *ProfileEditor {
	p := &ProfileEditor{user: u, editors: map[string]*FieldEditor{}, to: to}
	for _, f := range ProfileFields {
		p.editors[f] = NewFieldEditor(f, fieldValue(u, f))
	}
	return p
}

func fieldValue(u User, field string) string {
	switch field {
	case "name":
		return u.Name
	case "phone":
		return u.Phone
	case "governorate":
		return u.Governorate
	case "city":
		return u.City
	case "street":
		return u.Street
	case "role":
		return u.Role
	case "is_active":
		return strconv.FormatBool(u.IsActive)
	default:
		return ""
	}
}

func (p *ProfileEditor) User() User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

func (p *ProfileEditor) Editor(field string) (*FieldEditor, error) {
	e, ok := p.editors[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrIllegalEditorMove, field)
	}
	return e, nil
}

func (p *ProfileEditor) Edit(field string) error {
	e, err := p.Editor(field)
	if err != nil {
		return err
	}
	return e.Edit()
}

func (p *ProfileEditor) SetDraft(field, v string) error {
	e, err := p.Editor(field)
	if err != nil {
		return err
	}
	return e.SetDraft(v)
}

func (p *ProfileEditor) Cancel(field string) error {
	e, err := p.Editor(field)
	if err != nil {
		return err
	}
	return e.Cancel()
}

// 1項目だけPATCHし、返ってきたユーザーで他の表示も更新する
func (p *ProfileEditor) Save(ctx context.Context, field string) error {
	e, err := p.Editor(field)
	if err != nil {
		return err
	}
	id := p.User().ID

	var saved User
	err = e.Save(ctx, func(ctx context.Context, field, draft string) (string, error) {
		u, err := p.to.UpdateUserField(ctx, id, field, draft)
		if err != nil {
			return "", err
		}
		saved = u
		return fieldValue(u, field), nil
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.user = saved
	p.mu.Unlock()
	for f, other := range p.editors {
		if f != field {
			other.Refresh(fieldValue(saved, f))
		}
	}
	return nil
}
