package memory

import (
	"time"

	"axon-assistant/internal/repository/contract"
	"axon-assistant/pkg/store"

	"github.com/patrickmn/go-cache"
)

const DefaultSessionTTL = 60 * time.Second

type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ contract.SessionRepository = &SessionRepository{}

// NewSessionRepository keeps a pending selection for ttl, purging expired
// entries every minute.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	c := cache.New(ttl, time.Minute)
	return &SessionRepository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *SessionRepository) TTL() time.Duration {
	return r.ttl
}

// Save replaces any pending session for the same conversation.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
