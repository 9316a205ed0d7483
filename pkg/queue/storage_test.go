package queue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/queue"
)

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("absent name", func(t *testing.T) {
		t.Parallel()

		blob, err := queue.NewMemoryStorage().Load(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, blob)
	})

	t.Run("save and load", func(t *testing.T) {
		t.Parallel()

		s := queue.NewMemoryStorage()
		in := []byte(`[]`)
		require.NoError(t, s.Save(ctx, "q", in))

		in[0] = 'x'
		out, err := s.Load(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), out)

		require.NoError(t, s.Save(ctx, "q", []byte(`[{"operation_id":"a"}]`)))
		out, err = s.Load(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, `[{"operation_id":"a"}]`, string(out))
	})

	t.Run("names", func(t *testing.T) {
		t.Parallel()

		s := queue.NewMemoryStorage()
		require.NoError(t, s.Save(ctx, "b", nil))
		require.NoError(t, s.Save(ctx, "a", nil))
		assert.Equal(t, []string{"a", "b"}, s.Names())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		s := queue.NewMemoryStorage()
		assert.ErrorIs(t, s.Save(cctx, "q", nil), context.Canceled)
		_, err := s.Load(cctx, "q")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
