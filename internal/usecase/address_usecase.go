package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/repository"
)

type AddressDTO struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Phone           string `json:"phone"`
	Governorate     string `json:"governorate"`
	City            string `json:"city"`
	Street          string `json:"street"`
	BuildingNumber  string `json:"building_number"`
	ApartmentNumber string `json:"apartment_number"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// 作成・更新で同じ形
type AddressRequest struct {
	Phone           string `json:"phone"`
	Governorate     string `json:"governorate"`
	City            string `json:"city"`
	Street          string `json:"street"`
	BuildingNumber  string `json:"building_number"`
	ApartmentNumber string `json:"apartment_number"`
}

func (req AddressRequest) validate() error {
	verrs := ValidationErrors{}
	if !validPhone(req.Phone) {
		verrs.Add("phone", "phone is invalid")
	}
	if strings.TrimSpace(req.Governorate) == "" {
		verrs.Add("governorate", "governorate is required")
	}
	if strings.TrimSpace(req.City) == "" {
		verrs.Add("city", "city is required")
	}
	if strings.TrimSpace(req.Street) == "" {
		verrs.Add("street", "street is required")
	}
	return verrs.Err()
}

type AddressUsecase struct {
	addresses repository.AddressRepository
	clock     clock.Clock
}

func NewAddressUsecase(addresses repository.AddressRepository, clk clock.Clock) *AddressUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AddressUsecase{addresses: addresses, clock: clk}
}

func (u *AddressUsecase) List(ctx context.Context, userID string) ([]AddressDTO, error) {
	if userID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errDB
	}
	return lo.Map(list, func(a model.Address, _ int) AddressDTO { return toAddressDTO(a) }), nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID string, req AddressRequest) (AddressDTO, error) {
	if userID == "" {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//入力チェック
	if err := req.validate(); err != nil {
		return AddressDTO{}, err
	}

	now := u.clock.Now()
	a := model.Address{
		ID:              newID(),
		UserID:          userID,
		Phone:           strings.TrimSpace(req.Phone),
		Governorate:     strings.TrimSpace(req.Governorate),
		City:            strings.TrimSpace(req.City),
		Street:          strings.TrimSpace(req.Street),
		BuildingNumber:  strings.TrimSpace(req.BuildingNumber),
		ApartmentNumber: strings.TrimSpace(req.ApartmentNumber),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.addresses.Create(ctx, &a); err != nil {
		return AddressDTO{}, errDB
	}
	return toAddressDTO(a), nil
}

// 過去の注文・予約のスナップショットは変わらない
func (u *AddressUsecase) Update(ctx context.Context, userID string, addressID string, req AddressRequest) (AddressDTO, error) {
	if userID == "" {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(addressID) == "" {
		return AddressDTO{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := req.validate(); err != nil {
		return AddressDTO{}, err
	}

	//所有チェック（本人のみ）
	current, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return AddressDTO{}, fromRepoError(err)
	}
	if current.UserID != userID {
		return AddressDTO{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	current.Phone = strings.TrimSpace(req.Phone)
	current.Governorate = strings.TrimSpace(req.Governorate)
	current.City = strings.TrimSpace(req.City)
	current.Street = strings.TrimSpace(req.Street)
	current.BuildingNumber = strings.TrimSpace(req.BuildingNumber)
	current.ApartmentNumber = strings.TrimSpace(req.ApartmentNumber)
	current.UpdatedAt = u.clock.Now()

	if err := u.addresses.Update(ctx, current); err != nil {
		return AddressDTO{}, fromRepoError(err)
	}
	return toAddressDTO(current), nil
}

// 先頭の+と数字のみ、7〜20桁
func validPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toAddressDTO(a model.Address) AddressDTO {
	return AddressDTO{
		ID:              a.ID,
		UserID:          a.UserID,
		Phone:           a.Phone,
		Governorate:     a.Governorate,
		City:            a.City,
		Street:          a.Street,
		BuildingNumber:  a.BuildingNumber,
		ApartmentNumber: a.ApartmentNumber,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}
