package dto

// EventType distinguishes typed messages from button presses.
type EventType string

const (
	EventMessage     EventType = "message"
	EventButtonPress EventType = "button_press"
)

// Event is one inbound chat event delivered by the transport.
type Event struct {
	Type      EventType `json:"event_type" binding:"required,oneof=message button_press"`
	SessionID string    `json:"session_id" binding:"required"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Token     string    `json:"token"`
}

// Sender returns the user the event came from, falling back to the session.
func (e Event) Sender() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.SessionID
}

// Button is a response affordance. Token is returned verbatim when pressed.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

type Message struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Reply is everything sent back for one event.
type Reply struct {
	Messages []Message `json:"messages"`
}

// Say appends a message.
func (r *Reply) Say(text string, buttons ...Button) {
	r.Messages = append(r.Messages, Message{Text: text, Buttons: buttons})
}

// TextReply builds a reply with a single plain message.
func TextReply(text string) Reply {
	var r Reply
	r.Say(text)
	return r
}
