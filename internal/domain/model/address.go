package model

import "time"

// 配送先住所（ユーザーのプロフィール。変更される）
type Address struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	//電話番号
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	//県（governorate）
	Governorate string `gorm:"type:varchar(100);not null" json:"governorate"`

	//市
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//通り
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//建物番号・部屋番号
	BuildingNumber  string `gorm:"type:varchar(50)" json:"building_number"`
	ApartmentNumber string `gorm:"type:varchar(50)" json:"apartment_number"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// 作成時にコピーして以後変えない連絡先・住所
type AddressSnapshot struct {
	Phone           string `gorm:"type:varchar(30)" json:"phone"`
	Governorate     string `gorm:"type:varchar(100)" json:"governorate"`
	City            string `gorm:"type:varchar(255)" json:"city"`
	Street          string `gorm:"type:varchar(255)" json:"street"`
	BuildingNumber  string `gorm:"type:varchar(50)" json:"building_number"`
	ApartmentNumber string `gorm:"type:varchar(50)" json:"apartment_number"`
}

// プロフィール住所のスナップショット
func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Phone:           a.Phone,
		Governorate:     a.Governorate,
		City:            a.City,
		Street:          a.Street,
		BuildingNumber:  a.BuildingNumber,
		ApartmentNumber: a.ApartmentNumber,
	}
}
