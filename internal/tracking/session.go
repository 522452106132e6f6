package tracking

import "github.com/google/uuid"

// SessionID scopes every tracked action to one page view. It is generated
// once per page load and never persisted, so a reload yields a new one.
type SessionID string

// NewSessionID returns a fresh random (v4) identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string {
	return string(id)
}

// ParseSessionID validates an identifier received from the shell.
func ParseSessionID(raw string) (SessionID, bool) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return SessionID(parsed.String()), true
}
