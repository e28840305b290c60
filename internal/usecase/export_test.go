package usecase

import "time"

// SetPublishTimeout はテスト中だけ送信上限を差し替える
func SetPublishTimeout(d time.Duration) (restore func()) {
	prev := publishTimeout
	publishTimeout = d
	return func() { publishTimeout = prev }
}
