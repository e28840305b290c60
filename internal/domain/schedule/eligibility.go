package schedule

import (
	"slices"
	"time"
)

// 予約日を選べるかどうかのルール
type Rules struct {
	// 休診日（営業週の最後の2日）
	RestDays []time.Weekday
}

// 金・土が休み（日〜木が営業週）
func DefaultRules() Rules {
	return Rules{RestDays: []time.Weekday{time.Friday, time.Saturday}}
}

func (r Rules) IsRestDay(d Date) bool {
	return slices.Contains(r.RestDays, d.Weekday())
}

// 過去日と休診日は選べない。今日は休診日でなければ選べる
func (r Rules) Eligible(d Date, today Date) bool {
	if d.IsZero() {
		return false
	}
	if d.Before(today) {
		return false
	}
	return !r.IsRestDay(d)
}

// 選べない理由（選べるなら空）
func (r Rules) Reason(d Date, today Date) string {
	switch {
	case d.IsZero():
		return "date is required"
	case d.Before(today):
		return "date is in the past"
	case r.IsRestDay(d):
		return "date falls on a rest day"
	default:
		return ""
	}
}

// todayから数えて最初に選べる日
func (r Rules) NextEligible(today Date) Date {
	d := today
	for i := 0; i < 7; i++ {
		if r.Eligible(d, today) {
			return d
		}
		d = d.AddDays(1)
	}
	return Date{}
}
