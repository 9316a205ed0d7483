package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by Storage.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	loadQueueSQL = `SELECT data FROM offline_queues WHERE name = $1`
	saveQueueSQL = `INSERT INTO offline_queues (name, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// Storage keeps each queue as one row of the offline_queues table.
// Run Migrate before first use.
type Storage struct {
	db DB
}

func NewStorage(db DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyQueueName
	}

	var data []byte
	if err := s.db.QueryRow(ctx, loadQueueSQL, name).Scan(&data); err != nil {
		if IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) Save(ctx context.Context, name string, blob []byte) error {
	if name == "" {
		return ErrEmptyQueueName
	}
	if blob == nil {
		blob = []byte{}
	}
	_, err := s.db.Exec(ctx, saveQueueSQL, name, blob)
	return err
}
