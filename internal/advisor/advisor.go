// Package advisor fetches short educational messages for in-game events
// and manages which message is currently on screen.
//
// The client side is the Dispatcher: it turns game events into requests
// against a Service and keeps a single-slot mailbox that the renderer reads.
// The server side (Server, ChatService, LocalService) answers those
// requests over HTTP, optionally backed by a chat-completion API.
package advisor

import (
	"context"
	"fmt"
	"time"
)

// Action identifies why an advisory message is requested.
type Action string

const (
	ActionWelcome        Action = "welcome"
	ActionCollectionTip  Action = "collection_tip"
	ActionScoreMilestone Action = "score_milestone"
	ActionRandomTip      Action = "random_tip"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionWelcome, ActionCollectionTip, ActionScoreMilestone, ActionRandomTip:
		return true
	}
	return false
}

// Character is the source tag of every message produced by this package.
const Character = "eco-teacher"

// FallbackText is shown when the advisory service cannot be reached.
const FallbackText = "Hi there! I'm having trouble connecting right now, but remember: every small action counts for our planet!"

// Request is the payload sent to the advisory service.
type Request struct {
	Action    Action `json:"action"`
	Score     int    `json:"score"`
	GameEvent string `json:"gameEvent,omitempty"`
}

// Message is the advisory service response.
type Message struct {
	Text      string `json:"message"`
	Character string `json:"character"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// FallbackMessage builds the fixed message used when a request fails.
func FallbackMessage(now time.Time) Message {
	return Message{
		Text:      FallbackText,
		Character: Character,
		Timestamp: now.UnixMilli(),
	}
}

// Service answers advisory requests.
type Service interface {
	Advise(ctx context.Context, req Request) (Message, error)
}

// ServiceError is returned when the advisory service answers with a
// non-success status.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("advisor: service returned status %d", e.Status)
	}
	return fmt.Sprintf("advisor: service returned status %d: %s", e.Status, e.Detail)
}
