package pg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/pg"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return pgconn.NewCommandTag(called.String(0)), called.Error(1)
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func TestStorageLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		t.Parallel()
		db := &MockDB{}
		db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"uploads"}).
			Return(fakeRow{data: []byte(`[]`)})

		blob, err := pg.NewStorage(db).Load(ctx, "uploads")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), blob)
		db.AssertExpectations(t)
	})

	t.Run("no row", func(t *testing.T) {
		t.Parallel()
		db := &MockDB{}
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
			Return(fakeRow{err: pgx.ErrNoRows})

		blob, err := pg.NewStorage(db).Load(ctx, "uploads")
		require.NoError(t, err)
		assert.Nil(t, blob)
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection reset")
		db := &MockDB{}
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
			Return(fakeRow{err: cause})

		_, err := pg.NewStorage(db).Load(ctx, "uploads")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		_, err := pg.NewStorage(&MockDB{}).Load(ctx, "")
		assert.ErrorIs(t, err, pg.ErrEmptyQueueName)
	})
}

func TestStorageSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("upsert", func(t *testing.T) {
		t.Parallel()
		db := &MockDB{}
		db.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
			return strings.Contains(sql, "ON CONFLICT (name) DO UPDATE")
		}), []any{"uploads", []byte(`[]`)}).Return("INSERT 0 1", nil)

		require.NoError(t, pg.NewStorage(db).Save(ctx, "uploads", []byte(`[]`)))
		db.AssertExpectations(t)
	})

	t.Run("nil blob is stored as empty", func(t *testing.T) {
		t.Parallel()
		db := &MockDB{}
		db.On("Exec", mock.Anything, mock.Anything, []any{"uploads", []byte{}}).Return("INSERT 0 1", nil)

		require.NoError(t, pg.NewStorage(db).Save(ctx, "uploads", nil))
		db.AssertExpectations(t)
	})

	t.Run("exec error", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("read-only transaction")
		db := &MockDB{}
		db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return("", cause)

		assert.ErrorIs(t, pg.NewStorage(db).Save(ctx, "uploads", nil), cause)
	})
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, pg.IsNotFoundError(errors.Join(errors.New("wrapped"), pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(nil))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))
}

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}
