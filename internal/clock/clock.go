package clock

import "time"

// usecaseに「今」を注入するための約束
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// time.Nowを返す本番用
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// テスト用（常に同じ時刻）
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
