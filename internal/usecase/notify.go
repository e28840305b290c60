package usecase

import (
	"context"
	"log/slog"
	"time"

	"kidcare/internal/domain/model"
	"kidcare/internal/logging"
)

// 送信を待つ上限
var publishTimeout = 3 * time.Second

// ステータス変更の送り先（Kafkaなど）
type StatusEventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev model.StatusChangedEvent) error
}

// ステータス変更の件数
type StatusChangeRecorder interface {
	StatusChanged(kind, to string)
}

// コミット後に呼ぶ。送信失敗はログに残すだけでリクエストは失敗させない
type statusNotifier struct {
	publisher StatusEventPublisher
	recorder  StatusChangeRecorder
	log       *slog.Logger
}

func newStatusNotifier(p StatusEventPublisher, r StatusChangeRecorder, log *slog.Logger) statusNotifier {
	if log == nil {
		log = logging.Discard()
	}
	return statusNotifier{publisher: p, recorder: r, log: log}
}

func (n statusNotifier) notify(ctx context.Context, ev model.StatusChangedEvent) {
	if n.recorder != nil {
		n.recorder.StatusChanged(string(ev.Kind), ev.To)
	}
	if n.publisher == nil {
		return
	}
	// リクエストのキャンセルとは切り離し、上限だけかける
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.publisher.PublishStatusChanged(pctx, ev); err != nil {
		logging.Error(n.log, logging.Fields{
			Component:  "event",
			Action:     "publish_status_changed",
			ActorID:    ev.ActorID,
			ResourceID: ev.ID,
			Status:     ev.To,
			Message:    "status event publish failed",
		}, err)
	}
}
