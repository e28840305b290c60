package schedule

import (
	"errors"
	"time"
)

var ErrDateNotSelectable = errors.New("date is not selectable")

// 月表示の1マス（Day==0は前後の空白）
type Cell struct {
	Day      int  `json:"day"`
	Date     Date `json:"date"`
	Eligible bool `json:"eligible"`
	Today    bool `json:"today"`
	Selected bool `json:"selected"`
}

// 月グリッド
type Month struct {
	Year     int            `json:"year"`
	Month    time.Month     `json:"month"`
	Weeks    [][]Cell       `json:"weeks"`
	RestDays []time.Weekday `json:"rest_days"`
}

// 表示中の年月と選択中の日を持つカレンダー
type Calendar struct {
	rules    Rules
	today    Date
	year     int
	month    time.Month
	selected *Date
}

// 今日の月を表示した状態で作る
func NewCalendar(rules Rules, today Date) *Calendar {
	return &Calendar{
		rules: rules,
		today: today,
		year:  today.Year,
		month: today.Month,
	}
}

func (c *Calendar) Displayed() (int, time.Month) {
	return c.year, c.month
}

// 表示月を変えたら選択は消える
func (c *Calendar) Show(year int, month time.Month) {
	first := NewDate(year, month, 1)
	c.year, c.month = first.Year, first.Month
	c.selected = nil
}

func (c *Calendar) NextMonth() {
	c.Show(c.year, c.month+1)
}

func (c *Calendar) PrevMonth() {
	c.Show(c.year, c.month-1)
}

// 表示中の月の日を選ぶ
func (c *Calendar) Select(day int) (Date, error) {
	if day < 1 || day > daysIn(c.year, c.month) {
		return Date{}, ErrDateNotSelectable
	}
	d := Date{Year: c.year, Month: c.month, Day: day}
	if !c.rules.Eligible(d, c.today) {
		return Date{}, ErrDateNotSelectable
	}
	c.selected = &d
	return d, nil
}

func (c *Calendar) Clear() {
	c.selected = nil
}

func (c *Calendar) Selected() (Date, bool) {
	if c.selected == nil {
		return Date{}, false
	}
	return *c.selected, true
}

// 日曜始まりの週ごとのマス
func (c *Calendar) Grid() Month {
	first := Date{Year: c.year, Month: c.month, Day: 1}
	n := daysIn(c.year, c.month)

	var weeks [][]Cell
	week := make([]Cell, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		week = append(week, Cell{})
	}
	for day := 1; day <= n; day++ {
		d := Date{Year: c.year, Month: c.month, Day: day}
		week = append(week, Cell{
			Day:      day,
			Date:     d,
			Eligible: c.rules.Eligible(d, c.today),
			Today:    d == c.today,
			Selected: c.selected != nil && *c.selected == d,
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Cell{})
		}
		weeks = append(weeks, week)
	}

	return Month{Year: c.year, Month: c.month, Weeks: weeks, RestDays: c.rules.RestDays}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
