package model

import "time"

// 何のステータスが変わったか
type EventKind string

const (
	EventKindOrder       EventKind = "order"
	EventKindAppointment EventKind = "appointment"
)

// コミット後に外へ流すステータス変更
type StatusChangedEvent struct {
	Kind    EventKind `json:"kind"`
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID string    `json:"actor_id"`
	At      time.Time `json:"at"`
}
