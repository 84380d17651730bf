// Package mqtt declares how computed schedules are announced to field crews.
package mqtt

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/impianti/core/planner"
)

// ErrPublish is returned when a message could not be delivered to the broker.
var ErrPublish = errors.New("mqtt publish failed")

// ScheduleMessage is the payload published for one schedule run.
type ScheduleMessage struct {
	MessageID string         `json:"message_id"`
	RunID     string         `json:"run_id"`
	Month     int            `json:"month"`
	Found     bool           `json:"found"`
	Cost      float64        `json:"cost"`
	Days      []planner.Step `json:"days"`
	Timestamp int64          `json:"timestamp"`
}

// Publisher sends schedule messages.
type Publisher interface {
	PublishSchedule(ctx context.Context, msg ScheduleMessage) error
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) PublishSchedule(context.Context, ScheduleMessage) error { return nil }

// NewMessage builds a message stamped with the given time.
func NewMessage(runID string, month int, found bool, cost float64, days []planner.Step, at time.Time) ScheduleMessage {
	return ScheduleMessage{RunID: runID, Month: month, Found: found, Cost: cost, Days: days, Timestamp: at.UnixMilli()}
}
