package amqp

import (
	"encoding/json"
	"time"
)

const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage announces a committed change to an expense. The
// event type doubles as the routing key.
type ExpenseEventMessage struct {
	Type      string    `json:"type"`
	ExpenseID string    `json:"expense_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(eventType, expenseID, userID string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Type:      eventType,
		ExpenseID: expenseID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
