package usecase

import (
	"context"
	"net/http"
	"time"

	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type AuditLogListInput struct {
	ActorUserID  string
	Action       string
	ResourceType string
	ResourceID   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// 対象レコードの変更履歴（新しい順）
func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		switch rt := model.AuditResourceType(in.ResourceType); rt {
		case model.AuditResourceProduct, model.AuditResourceOrder, model.AuditResourceAppointment, model.AuditResourceUser:
			f.ResourceType = &rt
		default:
			return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
		}
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, errDB
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
