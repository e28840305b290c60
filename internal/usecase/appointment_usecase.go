package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/domain/schedule"
	"kidcare/internal/domain/status"
	"kidcare/internal/listing"
	repo "kidcare/internal/repository"
)

type AppointmentUsecase struct {
	tx           repo.TransactionManager
	appointments repo.AppointmentRepository
	children     repo.ChildRepository
	vaccines     repo.VaccineRepository
	schedule     *ScheduleUsecase
	engine       *status.Engine[model.AppointmentStatus]
	notifier     statusNotifier
	clock        clock.Clock
}

func NewAppointmentUsecase(
	tx repo.TransactionManager,
	appointments repo.AppointmentRepository,
	children repo.ChildRepository,
	vaccines repo.VaccineRepository,
	sched *ScheduleUsecase,
	engine *status.Engine[model.AppointmentStatus],
	publisher StatusEventPublisher,
	recorder StatusChangeRecorder,
	log *slog.Logger,
	clk clock.Clock,
) *AppointmentUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AppointmentUsecase{
		tx:           tx,
		appointments: appointments,
		children:     children,
		vaccines:     vaccines,
		schedule:     sched,
		engine:       engine,
		notifier:     newStatusNotifier(publisher, recorder, log),
		clock:        clk,
	}
}

// POST /appointments の本文（キーはワイヤ上の名前）
type CreateAppointmentInput struct {
	ChildID         string `json:"childId"`
	VaccineID       string `json:"vaccineId"`
	VaccinationDate string `json:"vaccinationDate"`
	PhoneNumber     string `json:"phoneNumber"`
	Governorate     string `json:"governorate"`
	City            string `json:"city"`
	Street          string `json:"street"`
	BuildingNumber  string `json:"buildingNumber"`
	ApartmentNumber string `json:"apartmentNumber"`
}

type AppointmentOutput struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	ChildID         string                `json:"child_id"`
	VaccineID       string                `json:"vaccine_id"`
	VaccinationDate schedule.Date         `json:"vaccination_date"`
	Status          string                `json:"status"`
	Contact         model.AddressSnapshot `json:"contact"`
	// 月齢が接種範囲か（目安。作成時のみ）
	AgeEligible *bool     `json:"age_eligible,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentStatusInput struct {
	Status string
}

type AdminAppointmentListInput struct {
	ListInput
	Status string
}

func toAppointmentOutput(a model.Appointment) AppointmentOutput {
	return AppointmentOutput{
		ID:              a.ID,
		UserID:          a.UserID,
		ChildID:         a.ChildID,
		VaccineID:       a.VaccineID,
		VaccinationDate: schedule.DateOf(a.VaccinationDate),
		Status:          string(a.Status),
		Contact:         a.Contact,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// 入力はすべて確認してからまとめて返す
func (u *AppointmentUsecase) Create(ctx context.Context, userID string, in CreateAppointmentInput) (AppointmentOutput, error) {
	if userID == "" {
		return AppointmentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	verrs := ValidationErrors{}
	var (
		child   model.Child
		vaccine model.Vaccine
		date    schedule.Date
	)

	if strings.TrimSpace(in.ChildID) == "" {
		verrs.Add("childId", "child is required")
	} else if !validID(in.ChildID) {
		verrs.Add("childId", "child not found")
	} else {
		c, err := u.children.FindByID(ctx, in.ChildID)
		switch {
		case errors.Is(err, repo.ErrNotFound) || (err == nil && c.UserID != userID):
			verrs.Add("childId", "child not found")
		case err != nil:
			return AppointmentOutput{}, errDB
		default:
			child = c
		}
	}

	if strings.TrimSpace(in.VaccineID) == "" {
		verrs.Add("vaccineId", "vaccine is required")
	} else if !validID(in.VaccineID) {
		verrs.Add("vaccineId", "vaccine not found")
	} else {
		v, err := u.vaccines.FindByID(ctx, in.VaccineID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			verrs.Add("vaccineId", "vaccine not found")
		case err != nil:
			return AppointmentOutput{}, errDB
		default:
			vaccine = v
		}
	}

	if strings.TrimSpace(in.VaccinationDate) == "" {
		verrs.Add("vaccinationDate", "date is required")
	} else if d, err := schedule.ParseDate(in.VaccinationDate); err != nil {
		verrs.Add("vaccinationDate", "date must be YYYY-MM-DD")
	} else if reason := u.schedule.Rules().Reason(d, u.schedule.Today()); reason != "" {
		verrs.Add("vaccinationDate", reason)
	} else {
		date = d
	}

	if !validPhone(in.PhoneNumber) {
		verrs.Add("phoneNumber", "phone number is invalid")
	}
	if strings.TrimSpace(in.Governorate) == "" {
		verrs.Add("governorate", "governorate is required")
	}
	if strings.TrimSpace(in.City) == "" {
		verrs.Add("city", "city is required")
	}
	if strings.TrimSpace(in.Street) == "" {
		verrs.Add("street", "street is required")
	}
	if err := verrs.Err(); err != nil {
		return AppointmentOutput{}, err
	}

	now := u.clock.Now()
	a := model.Appointment{
		ID:              newID(),
		UserID:          userID,
		ChildID:         child.ID,
		VaccineID:       vaccine.ID,
		VaccinationDate: date.Time(),
		Status:          model.AppointmentStatusPending,
		Contact: model.AddressSnapshot{
			Phone:           strings.TrimSpace(in.PhoneNumber),
			Governorate:     strings.TrimSpace(in.Governorate),
			City:            strings.TrimSpace(in.City),
			Street:          strings.TrimSpace(in.Street),
			BuildingNumber:  strings.TrimSpace(in.BuildingNumber),
			ApartmentNumber: strings.TrimSpace(in.ApartmentNumber),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.appointments.Create(ctx, &a); err != nil {
		return AppointmentOutput{}, errDB
	}

	out := toAppointmentOutput(a)
	eligible := vaccine.AgeMatches(child.BirthDate, date.Time())
	out.AgeEligible = &eligible
	return out, nil
}

func (u *AppointmentUsecase) ListMine(ctx context.Context, userID string) ([]AppointmentOutput, error) {
	if userID == "" {
		return []AppointmentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := u.appointments.List(ctx, repo.AppointmentListFilter{UserID: userID})
	if err != nil {
		return []AppointmentOutput{}, errDB
	}
	return lo.Map(list, func(a model.Appointment, _ int) AppointmentOutput { return toAppointmentOutput(a) }), nil
}

// 申込者の取消はPendingの間だけ
func (u *AppointmentUsecase) Cancel(ctx context.Context, userID string, appointmentID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(appointmentID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !validID(appointmentID) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		a, err := r.Appointments().FindByIDForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		if a.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if a.Status != model.AppointmentStatusPending {
			return NewHTTPError(http.StatusConflict, "only pending appointments can be cancelled")
		}
		return r.Appointments().SoftDelete(ctx, appointmentID)
	})
	return fromRepoError(err)
}

// 検索対象：ID・子ども・ワクチン・ステータス・接種日・連絡先
func AppointmentSearchFields(a AppointmentOutput) []string {
	return []string{
		a.ID,
		a.ChildID,
		a.VaccineID,
		a.Status,
		a.VaccinationDate.String(),
		a.Contact.Phone,
		listing.AddressLine(a.Contact.Street, a.Contact.City, a.Contact.Governorate),
	}
}

func (u *AppointmentUsecase) AdminList(ctx context.Context, in AdminAppointmentListInput) (ListOutput[AppointmentOutput], error) {
	if err := in.validate(); err != nil {
		return ListOutput[AppointmentOutput]{}, err
	}
	if in.Status != "" && !u.engine.Valid(model.AppointmentStatus(in.Status)) {
		return ListOutput[AppointmentOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	list, err := u.appointments.List(ctx, repo.AppointmentListFilter{Status: in.Status})
	if err != nil {
		return ListOutput[AppointmentOutput]{}, errDB
	}
	outs := lo.Map(list, func(a model.Appointment, _ int) AppointmentOutput { return toAppointmentOutput(a) })
	return pageOf(listing.Search(outs, in.Q, AppointmentSearchFields), in.Page, in.Limit), nil
}

// スタッフ（管理者・提供者）によるステータス変更
func (u *AppointmentUsecase) UpdateStatus(ctx context.Context, actor status.Actor, appointmentID string, in AppointmentStatusInput) (AppointmentOutput, error) {
	if actor.ID == "" {
		return AppointmentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(appointmentID) == "" {
		return AppointmentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !validID(appointmentID) {
		return AppointmentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	target := model.AppointmentStatus(in.Status)

	var (
		a       model.Appointment
		before  model.AppointmentStatus
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		a, err = r.Appointments().FindByIDForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		before = a.Status

		changed, err = u.engine.Apply(&a, target, actor)
		if err != nil || !changed {
			return err
		}

		if err := r.Appointments().UpdateStatus(ctx, appointmentID, target); err != nil {
			return err
		}
		a.UpdatedAt = u.clock.Now()

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionUpdateAppointmentStatus,
			ResourceType: model.AuditResourceAppointment,
			ResourceID:   appointmentID,
			BeforeJSON:   auditJSON(map[string]string{"status": string(before)}),
			AfterJSON:    auditJSON(map[string]string{"status": string(target)}),
			CreatedAt:    a.UpdatedAt,
		})
	})
	if err != nil {
		return AppointmentOutput{}, fromTransitionError(err)
	}

	if changed {
		u.notifier.notify(ctx, model.StatusChangedEvent{
			Kind:    model.EventKindAppointment,
			ID:      appointmentID,
			From:    string(before),
			To:      string(target),
			ActorID: actor.ID,
			At:      u.clock.Now(),
		})
	}
	return toAppointmentOutput(a), nil
}
