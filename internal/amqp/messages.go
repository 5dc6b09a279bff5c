package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ExpenseCreated EventType = "created"
	ExpenseDeleted EventType = "deleted"
)

// ExpenseEvent announces a change to an expense. It carries only the ID;
// consumers load the current row from the store.
type ExpenseEvent struct {
	EventID   string    `json:"event_id"`
	Type      EventType `json:"type"`
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(t EventType, expenseID int64) ExpenseEvent {
	return ExpenseEvent{
		EventID:   uuid.NewString(),
		Type:      t,
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

func (e ExpenseEvent) Validate() error {
	if _, err := uuid.Parse(e.EventID); err != nil {
		return fmt.Errorf("invalid event id %q: %w", e.EventID, err)
	}
	switch e.Type {
	case ExpenseCreated, ExpenseDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.ExpenseID <= 0 {
		return fmt.Errorf("invalid expense id %d", e.ExpenseID)
	}
	return nil
}

func (e ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes and validates an event body.
func ExpenseEventFromJSON(data []byte) (ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ExpenseEvent{}, err
	}
	if err := ev.Validate(); err != nil {
		return ExpenseEvent{}, err
	}
	return ev, nil
}
