package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/serroba/user-lookup-go/internal/audit"
)

// Schema creates the audit table if it does not exist.
const Schema = `CREATE TABLE IF NOT EXISTS user_removals (
	request_id   TEXT PRIMARY KEY,
	phone        TEXT NOT NULL,
	client_ip    TEXT NOT NULL,
	user_agent   TEXT NOT NULL,
	requested_at TIMESTAMPTZ NOT NULL
)`

const insertRemoval = `INSERT INTO user_removals (request_id, phone, client_ip, user_agent, requested_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (request_id) DO NOTHING`

// Execer is the subset of pgxpool.Pool used by Postgres.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres persists audit events in the user_removals table.
type Postgres struct {
	db Execer
}

// NewPostgres creates a new PostgreSQL audit store.
func NewPostgres(db Execer) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the user_removals table.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.Exec(ctx, Schema)

	return err
}

func (p *Postgres) SaveUserRemoval(ctx context.Context, event *audit.UserRemovalEvent) error {
	_, err := p.db.Exec(ctx, insertRemoval,
		event.RequestID,
		event.Phone,
		event.ClientIP,
		event.UserAgent,
		event.RequestedAt,
	)

	return err
}

// Compile-time check.
var _ audit.Store = (*Postgres)(nil)
