package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/listing"
	repo "kidcare/internal/repository"
)

// 子どもとワクチンは参照のみ
type ChildUsecase struct {
	children repo.ChildRepository
	vaccines repo.VaccineRepository
	clock    clock.Clock
}

func NewChildUsecase(children repo.ChildRepository, vaccines repo.VaccineRepository, clk clock.Clock) *ChildUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ChildUsecase{children: children, vaccines: vaccines, clock: clk}
}

type ChildOutput struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date"`
	AgeMonths int       `json:"age_months"`
	Gender    string    `json:"gender"`
	BloodType string    `json:"blood_type"`
	CreatedAt time.Time `json:"created_at"`
}

type VaccineOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MinAgeMonths int    `json:"min_age_months"`
	MaxAgeMonths int    `json:"max_age_months"`
}

func (u *ChildUsecase) toChildOutput(c model.Child) ChildOutput {
	return ChildOutput{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		BirthDate: c.BirthDate.Format("2006-01-02"),
		AgeMonths: model.AgeInMonths(c.BirthDate, u.clock.Now()),
		Gender:    c.Gender,
		BloodType: c.BloodType,
		CreatedAt: c.CreatedAt,
	}
}

func (u *ChildUsecase) ListMine(ctx context.Context, userID string) ([]ChildOutput, error) {
	if userID == "" {
		return []ChildOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := u.children.ListByUserID(ctx, userID)
	if err != nil {
		return []ChildOutput{}, errDB
	}
	return lo.Map(list, func(c model.Child, _ int) ChildOutput { return u.toChildOutput(c) }), nil
}

// 1件多く読んで次があるか判断する
func (u *ChildUsecase) AdminListCursor(ctx context.Context, cursor string, limit int) (CursorOutput[ChildOutput], error) {
	if limit == 0 {
		limit = 10
	}
	if limit < 1 || limit > maxLimit {
		return CursorOutput[ChildOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	afterID, err := listing.DecodeCursor(cursor)
	if errors.Is(err, listing.ErrInvalidCursor) || (afterID != "" && !validID(afterID)) {
		return CursorOutput[ChildOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid cursor")
	}

	list, err := u.children.ListAfter(ctx, afterID, limit+1)
	if err != nil {
		return CursorOutput[ChildOutput]{}, errDB
	}

	next := ""
	if len(list) > limit {
		list = list[:limit]
		next = listing.EncodeCursor(list[len(list)-1].ID)
	}
	return CursorOutput[ChildOutput]{
		Data:       lo.Map(list, func(c model.Child, _ int) ChildOutput { return u.toChildOutput(c) }),
		NextCursor: next,
	}, nil
}

func (u *ChildUsecase) ListVaccines(ctx context.Context) ([]VaccineOutput, error) {
	list, err := u.vaccines.List(ctx)
	if err != nil {
		return []VaccineOutput{}, errDB
	}
	return lo.Map(list, func(v model.Vaccine, _ int) VaccineOutput {
		return VaccineOutput{ID: v.ID, Name: v.Name, MinAgeMonths: v.MinAgeMonths, MaxAgeMonths: v.MaxAgeMonths}
	}), nil
}
