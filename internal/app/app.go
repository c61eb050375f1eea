// Package app assembles the LinkedOut client stack and the development backend
// from a workspace config.
package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"linkedout/internal/config"
	"linkedout/internal/db"
	"linkedout/internal/engine"
	"linkedout/internal/engine/auth"
	"linkedout/internal/migrate"
	"linkedout/internal/repository"
	"linkedout/internal/server"
	"linkedout/internal/session"
	"linkedout/internal/viewmodel"
	linkedoutsdk "linkedout/sdk/go"
)

// Client is the wired client side: session store, API client, repository and
// the three view-models sharing one lifetime.
type Client struct {
	DB         *sql.DB
	Sessions   *session.Store
	API        *linkedoutsdk.Client
	Repository *repository.Repository

	Auth    *viewmodel.AuthViewModel
	Jobs    *viewmodel.JobViewModel
	Profile *viewmodel.ProfileViewModel

	log    *zap.Logger
	cancel context.CancelFunc
}

// OpenDB opens and migrates the workspace database.
func OpenDB(workspace string) (*sql.DB, error) {
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

// NewClient wires the client stack over an open database.
func NewClient(ctx context.Context, conn *sql.DB, cfg *config.Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	sessions := session.NewStore(conn)
	api := linkedoutsdk.New(cfg.API.BaseURL)
	api.Tokens = sessions
	if cfg.API.Timeout > 0 {
		api.Timeout = cfg.API.Timeout
	}
	repo := repository.New(api, sessions, log.Named("repository"))
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		DB:         conn,
		Sessions:   sessions,
		API:        api,
		Repository: repo,
		Auth:       viewmodel.NewAuthViewModel(ctx, repo, sessions, log.Named("auth")),
		Jobs:       viewmodel.NewJobViewModel(ctx, repo, log.Named("jobs")),
		Profile:    viewmodel.NewProfileViewModel(ctx, repo, log.Named("profile")),
		log:        log,
		cancel:     cancel,
	}
}

// Open opens the workspace database and wires a Client over it.
func Open(ctx context.Context, workspace string, cfg *config.Config, log *zap.Logger) (*Client, error) {
	conn, err := OpenDB(workspace)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, conn, cfg, log), nil
}

// Close cancels in-flight work and closes the database.
func (c *Client) Close() error {
	c.cancel()
	c.Auth.Close()
	c.Jobs.Close()
	c.Profile.Close()
	return c.DB.Close()
}

// Backend is the development API server.
type Backend struct {
	Engine  engine.Engine
	Handler http.Handler
}

// NewBackend builds the engine and HTTP handler described by cfg.Server.
// An empty jwt_secret gets a random one, so tokens do not survive a restart.
func NewBackend(conn *sql.DB, cfg config.Server, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		log.Warn("server.jwt_secret not set; using an ephemeral secret")
	}
	e := engine.New(conn, auth.Issuer{Secret: secret, TTL: cfg.TokenTTL}, PublicURL(cfg))
	if cfg.SignedURLTTL > 0 {
		e.SignedURLTTL = cfg.SignedURLTTL
	}
	handler, err := server.New(server.Config{Engine: e, BasePath: cfg.BasePath, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Backend{Engine: e, Handler: handler}, nil
}

// PublicURL returns the origin used for file links.
func PublicURL(cfg config.Server) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	addr := cfg.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
