package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store backed by Postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := &PostgresStore{db: pool}
	if err := store.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS session_credentials (
  session_id text PRIMARY KEY,
  token text NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);
`
	_, err := s.db.Exec(ctx, ddl)
	return err
}

func (s *PostgresStore) Put(ctx context.Context, sessionID, token string) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}
	const stmt = `INSERT INTO session_credentials (session_id, token)
VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE SET token = EXCLUDED.token, updated_at = now();`
	_, err := s.db.Exec(ctx, stmt, sessionID, token)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (string, error) {
	var token string
	err := s.db.QueryRow(ctx, `SELECT token FROM session_credentials WHERE session_id = $1`, sessionID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.Exec(ctx, `DELETE FROM session_credentials WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
