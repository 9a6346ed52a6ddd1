// Package session maps opaque tokens to verified identities. It is the
// single gate handlers use to authenticate a request: storage verifies
// credentials once at login, everything after that is an in-memory lookup.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the fixed session lifetime. Verification never extends it;
// a user whose session lapses logs in again.
const DefaultTTL = time.Hour

// ErrInvalidSession is returned when a token is unknown or expired. It is
// never substituted with an anonymous identity.
var ErrInvalidSession = errors.New("invalid session")

// Identity is a user that has passed a credential check. The only
// implementation lives in the services package, whose unexported fields
// keep identities mintable solely through a successful login or signup.
type Identity interface {
	UserID() uint
	Username() string
}

// Record is a live login session.
type Record struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Identity  Identity
}

// Store holds the two session caches: token -> record and username ->
// token. Users have at most one live session; repeated logins reuse the
// existing record, which also bounds memory under repeated-login abuse.
//
// A Store is created once at process start and shared by all handlers.
type Store struct {
	ttl time.Duration
	now func() time.Time

	byToken sync.Map // token string -> *Record
	byUser  sync.Map // username string -> token string

	sweepStop chan struct{}
	sweepOnce sync.Once
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:       ttl,
		now:       time.Now,
		sweepStop: make(chan struct{}),
	}
}

// ActiveToken returns the live token for a username, if any. Pure lookup,
// no I/O, safe for concurrent callers.
func (s *Store) ActiveToken(username string) (string, bool) {
	v, ok := s.byUser.Load(username)
	if !ok {
		return "", false
	}
	token := v.(string)
	rec, ok := s.lookup(token)
	if !ok {
		return "", false
	}
	return rec.Token, true
}

// Login returns the user's session, creating one only if none is live.
// Concurrent logins for the same user converge on a single record: the
// username map's LoadOrStore is the atomic check-then-insert, and losers
// discard their candidate token. Logins for different users do not
// serialize against each other.
func (s *Store) Login(identity Identity) *Record {
	username := identity.Username()
	for {
		if token, ok := s.ActiveToken(username); ok {
			if rec, ok := s.lookup(token); ok {
				return rec
			}
			continue
		}

		now := s.now()
		rec := &Record{
			Token:     uuid.NewString(),
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
			Identity:  identity,
		}

		// Publish the record before the username pointer so any reader
		// that finds the token also finds the record.
		s.byToken.Store(rec.Token, rec)
		if actual, loaded := s.byUser.LoadOrStore(username, rec.Token); loaded {
			// Lost the race; another login won. Drop our candidate.
			s.byToken.Delete(rec.Token)
			if winner, ok := s.lookup(actual.(string)); ok {
				return winner
			}
			continue
		}
		return rec
	}
}

// Verify resolves a token into its identity. Expired or unknown tokens
// yield ErrInvalidSession; expired records are evicted on the way out.
// The TTL is not refreshed.
func (s *Store) Verify(token string) (Identity, error) {
	rec, ok := s.lookup(token)
	if !ok {
		return nil, ErrInvalidSession
	}
	return rec.Identity, nil
}

// Logout removes the session for a token. Unknown tokens yield
// ErrInvalidSession.
func (s *Store) Logout(token string) error {
	v, ok := s.byToken.Load(token)
	if !ok {
		return ErrInvalidSession
	}
	s.evict(v.(*Record))
	return nil
}

// Sweep removes every expired record from both maps and returns how many
// it evicted. Login and Verify already evict lazily; the sweep exists so
// sessions of users who simply walk away do not accumulate over long
// uptimes.
func (s *Store) Sweep() int {
	now := s.now()
	evicted := 0
	s.byToken.Range(func(_, v any) bool {
		rec := v.(*Record)
		if now.After(rec.ExpiresAt) {
			s.evict(rec)
			evicted++
		}
		return true
	})
	return evicted
}

// StartSweeper runs Sweep on a fixed interval until StopSweeper is called.
func (s *Store) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.sweepStop:
				return
			}
		}
	}()
}

// StopSweeper stops the background sweeper. Safe to call more than once.
func (s *Store) StopSweeper() {
	s.sweepOnce.Do(func() { close(s.sweepStop) })
}

// lookup loads a record and evicts it if expired.
func (s *Store) lookup(token string) (*Record, bool) {
	v, ok := s.byToken.Load(token)
	if !ok {
		return nil, false
	}
	rec := v.(*Record)
	if s.now().After(rec.ExpiresAt) {
		s.evict(rec)
		return nil, false
	}
	return rec, true
}

// evict removes a record from both maps without disturbing a newer session
// that may have replaced it.
func (s *Store) evict(rec *Record) {
	s.byToken.CompareAndDelete(rec.Token, rec)
	s.byUser.CompareAndDelete(rec.Identity.Username(), rec.Token)
}
