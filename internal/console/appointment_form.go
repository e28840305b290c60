package console

import (
	"context"
	"sort"
	"strings"

	"kidcare/internal/domain/schedule"
	"kidcare/internal/usecase"
)

// フォーム全体にかかるエラーのキー
const FieldConfirmAddress = "confirmAddress"

// 入力エラー（キーは送信時のフィールド名）
type ValidationErrors map[string]string

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
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// 連絡先（プロフィールからコピーして、利用者が確認する）
type Contact struct {
	PhoneNumber     string
	Governorate     string
	City            string
	Street          string
	BuildingNumber  string
	ApartmentNumber string
}

type AppointmentForm struct {
	ChildID        string
	VaccineID      string
	Date           *schedule.Date
	Contact        Contact
	ConfirmAddress bool
}

// カレンダーで選んだ日を使う（未選択ならクリア）
func (f *AppointmentForm) UseCalendar(cal *schedule.Calendar) {
	d, ok := cal.Selected()
	if !ok {
		f.Date = nil
		return
	}
	f.Date = &d
}

// 失敗はまとめて返す（1つずつではない）。問題が無ければnil
func (f AppointmentForm) Validate(rules schedule.Rules, today schedule.Date) ValidationErrors {
	verrs := ValidationErrors{}
	if strings.TrimSpace(f.ChildID) == "" {
		verrs["childId"] = "select a child"
	}
	if strings.TrimSpace(f.VaccineID) == "" {
		verrs["vaccineId"] = "select a vaccine"
	}
	if f.Date == nil || f.Date.IsZero() {
		verrs["vaccinationDate"] = "select a date"
	} else if reason := rules.Reason(*f.Date, today); reason != "" {
		verrs["vaccinationDate"] = reason
	}
	if strings.TrimSpace(f.Contact.PhoneNumber) == "" {
		verrs["phoneNumber"] = "phone number is required"
	}
	if strings.TrimSpace(f.Contact.Governorate) == "" {
		verrs["governorate"] = "governorate is required"
	}
	if strings.TrimSpace(f.Contact.City) == "" {
		verrs["city"] = "city is required"
	}
	if strings.TrimSpace(f.Contact.Street) == "" {
		verrs["street"] = "street is required"
	}
	if !f.ConfirmAddress {
		verrs[FieldConfirmAddress] = "confirm that the address and phone number are correct"
	}
	if len(verrs) == 0 {
		return nil
	}
	return verrs
}

func (f AppointmentForm) Request() usecase.CreateAppointmentInput {
	in := usecase.CreateAppointmentInput{
		ChildID:         strings.TrimSpace(f.ChildID),
		VaccineID:       strings.TrimSpace(f.VaccineID),
		PhoneNumber:     strings.TrimSpace(f.Contact.PhoneNumber),
		Governorate:     strings.TrimSpace(f.Contact.Governorate),
		City:            strings.TrimSpace(f.Contact.City),
		Street:          strings.TrimSpace(f.Contact.Street),
		BuildingNumber:  strings.TrimSpace(f.Contact.BuildingNumber),
		ApartmentNumber: strings.TrimSpace(f.Contact.ApartmentNumber),
	}
	if f.Date != nil {
		in.VaccinationDate = f.Date.String()
	}
	return in
}

type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, in usecase.CreateAppointmentInput) (Appointment, error)
}

// 入力エラーがあれば送信しない
func (f AppointmentForm) Submit(ctx context.Context, to AppointmentCreator, rules schedule.Rules, today schedule.Date) (Appointment, error) {
	if verrs := f.Validate(rules, today); verrs != nil {
		return Appointment{}, verrs
	}
	return to.CreateAppointment(ctx, f.Request())
}
