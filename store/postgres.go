package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mizuri0x/contentblast/app/models"

	_ "github.com/lib/pq"
)

// Postgres backs both collections with row-per-record tables. Unlike the
// file store, mutations are row-level upserts; the per-key atomicity
// contract is the same from the caller's point of view.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to the given DSN and verifies the connection.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// EnsureSchema creates the users and sessions tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			email            TEXT PRIMARY KEY,
			password_hash    TEXT NOT NULL,
			name             TEXT NOT NULL DEFAULT '',
			plan             TEXT NOT NULL,
			repurposes_used  INT NOT NULL DEFAULT 0,
			repurposes_limit INT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			last_login       TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

// Users returns the user collection view of the store.
func (p *Postgres) Users() *PostgresUsers { return &PostgresUsers{db: p.db} }

// Sessions returns the session collection view of the store.
func (p *Postgres) Sessions() *PostgresSessions { return &PostgresSessions{db: p.db} }

type PostgresUsers struct {
	db *sql.DB
}

var _ UserStore = (*PostgresUsers)(nil)

func (u *PostgresUsers) Get(ctx context.Context, email string) (models.User, error) {
	var user models.User
	var lastLogin sql.NullTime
	err := u.db.QueryRowContext(ctx, `
		SELECT email, password_hash, name, plan, repurposes_used, repurposes_limit, created_at, last_login
		FROM users
		WHERE email = $1;
	`, email).Scan(
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Plan,
		&user.RepurposesUsed,
		&user.RepurposesLimit,
		&user.CreatedAt,
		&lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func (u *PostgresUsers) Put(ctx context.Context, user models.User) error {
	var lastLogin sql.NullTime
	if user.LastLogin != nil {
		lastLogin = sql.NullTime{Time: *user.LastLogin, Valid: true}
	}
	_, err := u.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, plan, repurposes_used, repurposes_limit, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			password_hash    = EXCLUDED.password_hash,
			name             = EXCLUDED.name,
			plan             = EXCLUDED.plan,
			repurposes_used  = EXCLUDED.repurposes_used,
			repurposes_limit = EXCLUDED.repurposes_limit,
			last_login       = EXCLUDED.last_login;
	`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Plan,
		user.RepurposesUsed,
		user.RepurposesLimit,
		user.CreatedAt,
		lastLogin,
	)
	return err
}

type PostgresSessions struct {
	db *sql.DB
}

var _ SessionStore = (*PostgresSessions)(nil)

func (s *PostgresSessions) Get(ctx context.Context, token string) (models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, email, created_at, expires_at
		FROM sessions
		WHERE token = $1;
	`, token).Scan(&sess.Token, &sess.Email, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *PostgresSessions) Put(ctx context.Context, session models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, email, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET
			email      = EXCLUDED.email,
			expires_at = EXCLUDED.expires_at;
	`, session.Token, session.Email, session.CreatedAt.UTC(), session.ExpiresAt.UTC())
	return err
}

func (s *PostgresSessions) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1;`, token)
	return err
}

// PurgeExpiredSessions removes sessions past their expiry. The session
// manager purges lazily on lookup; this is for periodic cleanup.
func (p *Postgres) PurgeExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1;`, now.UTC())
	return err
}
