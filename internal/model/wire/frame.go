package wire

import "time"

// Frame types sent server to client. Clients send raw UTF-8 text with no
// envelope; only server frames carry a type tag.
const (
	TypeOpener   = "opener"
	TypeExchange = "exchange"
	TypeError    = "error"
)

// Frame is the envelope for every server-to-client message. The type tag plus
// structured payload replaces the historic delimiter-joined string format, so
// user text containing the old delimiter can no longer corrupt parsing.
type Frame struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Opener is the one-shot greeting payload for a newly connected session.
type Opener struct {
	Text string `json:"text"`
}

// Exchange echoes an inbound message alongside the generated reply. It is
// broadcast to every session, the sender included.
type Exchange struct {
	Echo  string `json:"echo"`
	Reply string `json:"reply"`
}

// ErrorInfo reports a non-fatal processing problem to one client.
type ErrorInfo struct {
	Message string `json:"message"`
}

// NewOpener wraps a greeting in a timestamped frame.
func NewOpener(text string) Frame {
	return Frame{Type: TypeOpener, Data: Opener{Text: text}, Timestamp: time.Now().Unix()}
}

// NewExchange wraps an echo/reply pair in a timestamped frame.
func NewExchange(echo, reply string) Frame {
	return Frame{Type: TypeExchange, Data: Exchange{Echo: echo, Reply: reply}, Timestamp: time.Now().Unix()}
}

// NewError wraps an error message in a timestamped frame.
func NewError(message string) Frame {
	return Frame{Type: TypeError, Data: ErrorInfo{Message: message}, Timestamp: time.Now().Unix()}
}
