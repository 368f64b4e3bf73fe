package audit

import "time"

// TopicUserRemoval carries one event per accepted removal request.
const TopicUserRemoval = "user.removal.audit"

// EventTypeUserRemoval tags audit messages in their metadata.
const EventTypeUserRemoval = "user.removal.audited"

// UserRemovalEvent records who asked for a user to be removed.
type UserRemovalEvent struct {
	RequestID   string    `json:"requestId"`
	Phone       string    `json:"phone"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	RequestedAt time.Time `json:"requestedAt"`
}

// EventID identifies the event by its removal request.
func (e *UserRemovalEvent) EventID() string {
	return e.RequestID
}
