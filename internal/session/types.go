package session

import "time"

// Sender roles. The role is assigned by the upstream platform, not inferred
// from message content. A scammer claiming to be a victim stays a scammer.
const (
	RoleScammer = "scammer"
	RoleUser    = "user"
)

// Turn is one exchanged message. Immutable once recorded.
type Turn struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata carries optional channel hints from the upstream platform.
// Informational only; extraction does not depend on it.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// Request is one analysis invocation: the new incoming message plus the full
// prior history. The service holds no conversation state between requests;
// the caller owns the history and resends it every turn.
type Request struct {
	SessionID string    `json:"sessionId"`
	Message   Turn      `json:"message"`
	History   []Turn    `json:"conversationHistory"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Turns returns the full chronological turn list, new message last.
func (r Request) Turns() []Turn {
	turns := make([]Turn, 0, len(r.History)+1)
	turns = append(turns, r.History...)
	return append(turns, r.Message)
}

// TotalMessages is the number of messages exchanged including the new one.
func (r Request) TotalMessages() int {
	return len(r.History) + 1
}

// ValidRole reports whether sender is one of the two known roles.
func ValidRole(sender string) bool {
	return sender == RoleScammer || sender == RoleUser
}
