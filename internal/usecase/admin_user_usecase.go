package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/domain/status"
	"kidcare/internal/listing"
	repo "kidcare/internal/repository"
)

// 利用者・提供者の一覧と項目ごとの修正
type AdminUserUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
	clock clock.Clock
}

func NewAdminUserUsecase(tx repo.TransactionManager, users repo.UserRepository, clk clock.Clock) *AdminUserUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AdminUserUsecase{tx: tx, users: users, clock: clk}
}

type UserOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	Governorate string    `json:"governorate"`
	City        string    `json:"city"`
	Street      string    `json:"street"`
	Address     string    `json:"address"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type AdminUserListInput struct {
	ListInput
	Role string
}

// 1項目だけ書き換える
type UpdateUserFieldInput struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Governorate: u.Governorate,
		City:        u.City,
		Street:      u.Street,
		Address:     u.CompositeAddress(),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// 検索対象：名前・メール/電話・住所
func UserSearchFields(u UserOutput) []string {
	return []string{u.Name, u.Email, u.Phone, u.Address}
}

func validRole(r string) bool {
	switch model.Role(r) {
	case model.RoleUser, model.RoleAdmin, model.RoleProvider:
		return true
	}
	return false
}

func (u *AdminUserUsecase) List(ctx context.Context, in AdminUserListInput) (ListOutput[UserOutput], error) {
	if err := in.validate(); err != nil {
		return ListOutput[UserOutput]{}, err
	}
	if in.Role != "" && !validRole(in.Role) {
		return ListOutput[UserOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	list, err := u.users.List(ctx, in.Role)
	if err != nil {
		return ListOutput[UserOutput]{}, errDB
	}
	outs := lo.Map(list, func(x model.User, _ int) UserOutput { return toUserOutput(x) })
	return pageOf(listing.Search(outs, in.Q, UserSearchFields), in.Page, in.Limit), nil
}

// ロールと有効/無効の変更は発行済みトークンを無効にする
func (u *AdminUserUsecase) UpdateField(ctx context.Context, actor status.Actor, userID string, in UpdateUserFieldInput) (UserOutput, error) {
	if actor.ID == "" {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(userID) == "" {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	value := strings.TrimSpace(in.Value)

	var out UserOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		target, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		before := toUserOutput(*target)

		revoke, err := applyUserField(target, in.Field, value)
		if err != nil {
			return err
		}
		if revoke && target.ID == actor.ID {
			return NewHTTPError(http.StatusBadRequest, "cannot change own role or status")
		}
		target.UpdatedAt = u.clock.Now()

		if err := r.Users().Update(ctx, target); err != nil {
			return err
		}
		if revoke {
			if err := r.Users().IncrementTokenVersion(ctx, target.ID); err != nil {
				return err
			}
		}

		out = toUserOutput(*target)
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionUpdateUser,
			ResourceType: model.AuditResourceUser,
			ResourceID:   target.ID,
			BeforeJSON:   auditJSON(before),
			AfterJSON:    auditJSON(out),
			CreatedAt:    target.UpdatedAt,
		})
	})
	if err != nil {
		return UserOutput{}, fromRepoError(err)
	}
	return out, nil
}

// 発行済みトークンをすべて無効にする（token_versionを上げる）
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actor status.Actor, userID string) error {
	if actor.ID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(userID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		target, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := r.Users().IncrementTokenVersion(ctx, target.ID); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionForceLogout,
			ResourceType: model.AuditResourceUser,
			ResourceID:   target.ID,
			BeforeJSON:   auditJSON(map[string]int{"token_version": target.TokenVersion}),
			AfterJSON:    auditJSON(map[string]int{"token_version": target.TokenVersion + 1}),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return fromRepoError(err)
	}
	return nil
}

// revoke=trueならトークン版数を上げる
func applyUserField(target *model.User, field, value string) (revoke bool, err error) {
	verrs := ValidationErrors{}
	switch field {
	case "name":
		if value == "" {
			verrs.Add(field, "name is required")
		}
		target.Name = value
	case "phone":
		if !validPhone(value) {
			verrs.Add(field, "phone is invalid")
		}
		target.Phone = value
	case "governorate":
		target.Governorate = value
	case "city":
		target.City = value
	case "street":
		target.Street = value
	case "role":
		if !validRole(value) {
			verrs.Add(field, "role must be USER, ADMIN or PROVIDER")
		}
		revoke = target.Role != model.Role(value)
		target.Role = model.Role(value)
	case "is_active":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			verrs.Add(field, "is_active must be true or false")
		}
		revoke = target.IsActive != b
		target.IsActive = b
	default:
		verrs.Add("field", "unknown field")
	}
	if err := verrs.Err(); err != nil {
		return false, err
	}
	return revoke, nil
}
