package contract

import "axon-assistant/pkg/store"

// SessionRepository holds pending disambiguation sessions.
type SessionRepository interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string)
}
