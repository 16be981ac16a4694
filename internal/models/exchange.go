// ABOUTME: Exchange represents one user question and assistant answer pair
// ABOUTME: Sessions keep a bounded, ordered list of exchanges
package models

import "time"

// Exchange represents a single conversation exchange
type Exchange struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExchange creates an exchange stamped with the current time
func NewExchange(userMessage, aiResponse string) Exchange {
	return Exchange{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		Timestamp:   time.Now().UTC(),
	}
}
