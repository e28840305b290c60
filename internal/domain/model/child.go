package model

import "time"

// 子ども（この中核では参照のみ）
type Child struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender    string    `gorm:"type:varchar(10)" json:"gender"`
	BloodType string    `gorm:"type:varchar(5)" json:"blood_type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// 接種可能な月齢の範囲（MaxAgeMonths==0 は上限なし）
type Vaccine struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	MinAgeMonths int    `gorm:"not null;default:0" json:"min_age_months"`
	MaxAgeMonths int    `gorm:"not null;default:0" json:"max_age_months"`
}

// on時点の満月齢
func AgeInMonths(birth, on time.Time) int {
	by, bm, bd := birth.Date()
	oy, om, od := on.Date()
	months := (oy-by)*12 + int(om-bm)
	if od < bd {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// 月齢が範囲内か（目安。強制はしない）
func (v Vaccine) AgeMatches(birth, on time.Time) bool {
	age := AgeInMonths(birth, on)
	if age < v.MinAgeMonths {
		return false
	}
	if v.MaxAgeMonths > 0 && age > v.MaxAgeMonths {
		return false
	}
	return true
}
