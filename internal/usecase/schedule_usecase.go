package usecase

import (
	"context"
	"net/http"
	"time"

	"kidcare/internal/clock"
	"kidcare/internal/domain/schedule"
)

// 予約日のルールと「今日」をサーバーの時計で決める
type ScheduleUsecase struct {
	rules schedule.Rules
	loc   *time.Location
	clock clock.Clock
}

func NewScheduleUsecase(rules schedule.Rules, loc *time.Location, clk clock.Clock) *ScheduleUsecase {
	if loc == nil {
		loc = time.UTC
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ScheduleUsecase{rules: rules, loc: loc, clock: clk}
}

func (u *ScheduleUsecase) Rules() schedule.Rules {
	return u.rules
}

func (u *ScheduleUsecase) Today() schedule.Date {
	return schedule.Today(u.clock.Now(), u.loc)
}

type CalendarOutput struct {
	schedule.Month
	Today        schedule.Date `json:"today"`
	NextEligible schedule.Date `json:"next_eligible"`
}

// year/monthが0なら今月
func (u *ScheduleUsecase) Calendar(ctx context.Context, year int, month int) (CalendarOutput, error) {
	today := u.Today()
	if year == 0 && month == 0 {
		year, month = today.Year, int(today.Month)
	}
	if year < 2000 || year > 2100 {
		return CalendarOutput{}, NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	if month < 1 || month > 12 {
		return CalendarOutput{}, NewHTTPError(http.StatusBadRequest, "invalid month")
	}

	cal := schedule.NewCalendar(u.rules, today)
	cal.Show(year, time.Month(month))
	return CalendarOutput{
		Month:        cal.Grid(),
		Today:        today,
		NextEligible: u.rules.NextEligible(today),
	}, nil
}
