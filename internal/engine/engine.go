// Package engine implements the development backend's use cases on top of repo.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"linkedout/internal/engine/auth"
	"linkedout/internal/events"
	"linkedout/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Auth   auth.Issuer
	// PublicURL prefixes stored file URLs, e.g. http://localhost:8080.
	PublicURL    string
	SignedURLTTL time.Duration
	Now          func() time.Time
}

func New(db *sql.DB, issuer auth.Issuer, publicURL string) Engine {
	return Engine{
		DB:           db,
		Repo:         repo.Repo{DB: db},
		Events:       events.Writer{DB: db},
		Auth:         issuer,
		PublicURL:    strings.TrimRight(publicURL, "/"),
		SignedURLTTL: time.Hour,
		Now:          time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyApplied     = errors.New("already applied to this job")
)

// ValidationError rejects one request field.
type ValidationError struct {
	Param string
	Msg   string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func invalid(param, format string, args ...any) ValidationError {
	return ValidationError{Param: param, Msg: fmt.Sprintf(format, args...)}
}

// withTx runs fn in a transaction and commits when it returns nil.
func (e Engine) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Page is a normalized pagination window.
type Page struct {
	Page  int
	Limit int
	Total int
	Pages int
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

func newPage(page, limit int) Page {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) withTotal(total int) Page {
	p.Total = total
	p.Pages = (total + p.Limit - 1) / p.Limit
	return p
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
