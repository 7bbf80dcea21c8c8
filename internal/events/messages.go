package events

import (
	"encoding/json"
	"time"
)

// Event types. They double as AMQP routing keys.
const (
	TypeExpenseCreated  = "expense.created"
	TypePaymentRecorded = "payment.recorded"
)

// Event is a lightweight notification emitted after a ledger write commits.
// It carries only identifiers and the amount; consumers fetch the full
// record from the ledger if they need it.
type Event struct {
	Type      string    `json:"type"`
	GroupID   int64     `json:"group_id"`
	EntityID  int64     `json:"entity_id"`
	ActorID   int64     `json:"actor_id"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseCreated builds the event for a committed expense.
func NewExpenseCreated(groupID, expenseID, actorID int64, amount, currency string) *Event {
	return &Event{
		Type:      TypeExpenseCreated,
		GroupID:   groupID,
		EntityID:  expenseID,
		ActorID:   actorID,
		Amount:    amount,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentRecorded builds the event for a committed payment.
func NewPaymentRecorded(groupID, paymentID, actorID int64, amount, currency string) *Event {
	return &Event{
		Type:      TypePaymentRecorded,
		GroupID:   groupID,
		EntityID:  paymentID,
		ActorID:   actorID,
		Amount:    amount,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
