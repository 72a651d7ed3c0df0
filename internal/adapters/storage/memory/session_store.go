package memory

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/PabloGalante/mindecho/internal/domain"
)

// NoExpiration keeps sessions until DeleteSession is called.
const NoExpiration = cache.NoExpiration

// SessionStore keeps sessions in process memory. Idle sessions expire after
// ttl; every read extends the deadline. Nothing is ever written to disk.
type SessionStore struct {
	sessions *cache.Cache
}

// NewSessionStore creates a store. A ttl <= 0 (see NoExpiration) disables
// expiry. onEvicted, if not nil, is called whenever a session leaves the
// store, by expiry or by DeleteSession.
func NewSessionStore(ttl time.Duration, onEvicted func(domain.SessionID)) *SessionStore {
	var c *cache.Cache
	if ttl <= 0 {
		c = cache.New(NoExpiration, 0)
	} else {
		c = cache.New(ttl, ttl/2)
	}
	if onEvicted != nil {
		c.OnEvicted(func(key string, _ interface{}) {
			onEvicted(domain.SessionID(key))
		})
	}
	return &SessionStore{sessions: c}
}

func (s *SessionStore) CreateSession(session *domain.Session) error {
	if err := s.sessions.Add(string(session.ID), session, cache.DefaultExpiration); err != nil {
		return domain.ErrSessionExists
	}
	return nil
}

func (s *SessionStore) GetSession(id domain.SessionID) (*domain.Session, error) {
	v, found := s.sessions.Get(string(id))
	if !found {
		return nil, domain.ErrSessionNotFound
	}

	sess := v.(*domain.Session)
	// Replace fails if DeleteSession won the race, so a cleared session stays gone.
	if err := s.sessions.Replace(string(id), sess, cache.DefaultExpiration); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession discards the session and its whole history.
func (s *SessionStore) DeleteSession(id domain.SessionID) error {
	if _, found := s.sessions.Get(string(id)); !found {
		return domain.ErrSessionNotFound
	}
	s.sessions.Delete(string(id))
	return nil
}

func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}
