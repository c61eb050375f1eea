// Package session persists the signed-in user's session: auth token, user id,
// user type and onboarding step.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	keyToken    = "auth_token"
	keyUserID   = "user_id"
	keyUserType = "user_type"
	keyStep     = "profile_completion_step"
)

// Session is a snapshot of the local session. Empty strings and nil pointers
// mean the entry is absent.
type Session struct {
	Token          string `json:"token,omitempty"`
	UserID         *int   `json:"user_id,omitempty"`
	UserType       string `json:"user_type,omitempty"`
	OnboardingStep *int   `json:"onboarding_step,omitempty"`
}

// Empty reports whether no entry is set.
func (s Session) Empty() bool {
	return s.Token == "" && s.UserID == nil && s.UserType == "" && s.OnboardingStep == nil
}

// Store is a durable key-value session store backed by SQLite. Writes are
// serialized and every committed write is broadcast to watchers.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	subs   map[uint64]chan Session
	nextID uint64
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now, subs: make(map[uint64]chan Session)}
}

// Get reads the current session.
func (s *Store) Get(ctx context.Context) (Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_entries`)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()
	var sess Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, err
		}
		switch key {
		case keyToken:
			sess.Token = value
		case keyUserType:
			sess.UserType = value
		case keyUserID:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Session{}, fmt.Errorf("session %s: %w", key, err)
			}
			sess.UserID = &n
		case keyStep:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Session{}, fmt.Errorf("session %s: %w", key, err)
			}
			sess.OnboardingStep = &n
		}
	}
	return sess, rows.Err()
}

// Token implements the SDK token source.
func (s *Store) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_entries WHERE key=?`, keyToken).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return token, err
}

// SaveAuth writes all four entries in one transaction.
func (s *Store) SaveAuth(ctx context.Context, token string, userID int, userType string, step int) error {
	return s.write(ctx, func(tx *sql.Tx, ts string) error {
		entries := []struct{ key, value string }{
			{keyToken, token},
			{keyUserID, strconv.Itoa(userID)},
			{keyUserType, userType},
			{keyStep, strconv.Itoa(step)},
		}
		for _, e := range entries {
			if err := upsert(ctx, tx, e.key, e.value, ts); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateOnboardingStep writes only the onboarding step.
func (s *Store) UpdateOnboardingStep(ctx context.Context, step int) error {
	return s.write(ctx, func(tx *sql.Tx, ts string) error {
		return upsert(ctx, tx, keyStep, strconv.Itoa(step), ts)
	})
}

// Clear removes every entry. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.write(ctx, func(tx *sql.Tx, _ string) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session_entries`)
		return err
	})
}

func (s *Store) write(ctx context.Context, fn func(tx *sql.Tx, ts string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	snap, err := s.Get(ctx)
	if err != nil {
		return err
	}
	for _, ch := range s.subs {
		deliver(ch, snap)
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, key, value, ts string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO session_entries(key, value, updated_at) VALUES (?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`, key, value, ts)
	return err
}

// Watch yields the current session followed by every committed change. Slow
// readers only see the latest snapshot. The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan Session {
	ch := make(chan Session, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if snap, err := s.Get(ctx); err == nil {
		deliver(ch, snap)
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func (s *Store) WatchToken(ctx context.Context) <-chan string {
	return project(ctx, s.Watch(ctx), func(sess Session) string { return sess.Token })
}

func (s *Store) WatchUserID(ctx context.Context) <-chan *int {
	return project(ctx, s.Watch(ctx), func(sess Session) *int { return sess.UserID })
}

func (s *Store) WatchUserType(ctx context.Context) <-chan string {
	return project(ctx, s.Watch(ctx), func(sess Session) string { return sess.UserType })
}

func (s *Store) WatchOnboardingStep(ctx context.Context) <-chan *int {
	return project(ctx, s.Watch(ctx), func(sess Session) *int { return sess.OnboardingStep })
}

func project[T any](ctx context.Context, in <-chan Session, fn func(Session) T) <-chan T {
	out := make(chan T, 1)
	go func() {
		defer close(out)
		for sess := range in {
			select {
			case out <- fn(sess):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// deliver replaces any undelivered value so the channel always holds the latest.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
