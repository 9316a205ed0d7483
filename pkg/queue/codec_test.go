package queue_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/queue"
)

func TestJSONCodec(t *testing.T) {
	t.Parallel()

	codec := queue.JSONCodec{}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := []queue.Record{
			{ID: "a", Payload: map[string]any{"n": 1, "s": "x"}, Attachment: map[string]any{"k": "v"}},
			{ID: "b"},
		}

		blob, err := codec.Encode(in)
		require.NoError(t, err)

		out, err := codec.Decode(blob)
		require.NoError(t, err)
		require.Len(t, out, 2)

		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, map[string]any{"n": float64(1), "s": "x"}, out[0].Payload)
		assert.Equal(t, map[string]any{"k": "v"}, out[0].Attachment)
		assert.Equal(t, "b", out[1].ID)
		assert.Nil(t, out[1].Payload)
		assert.Nil(t, out[1].Attachment)
	})

	t.Run("field names", func(t *testing.T) {
		t.Parallel()

		blob, err := codec.Encode([]queue.Record{{ID: "a", Payload: map[string]any{"k": "v"}, Attachment: "x"}})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"operation_id":"a","payload":{"k":"v"},"attachment":"x"}]`, string(blob))
	})

	t.Run("empty queue", func(t *testing.T) {
		t.Parallel()

		blob, err := codec.Encode(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(blob))

		out, err := codec.Decode(blob)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("empty blob", func(t *testing.T) {
		t.Parallel()

		out, err := codec.Decode([]byte("  "))
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("corrupt entries are dropped individually", func(t *testing.T) {
		t.Parallel()

		blob := []byte(`[
			{"operation_id":"a"},
			{"payload":{"k":"v"}},
			{"operation_id":"b","payload":"not an object"},
			null,
			{"operation_id":"c","payload":{"k":"v"}}
		]`)

		out, err := codec.Decode(blob)
		require.Error(t, err)
		assert.ErrorIs(t, err, queue.ErrEntryInvalid)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "c", out[1].ID)
	})

	t.Run("malformed blob", func(t *testing.T) {
		t.Parallel()

		out, err := codec.Decode([]byte(`{"operation_id":"a"}`))
		assert.ErrorIs(t, err, queue.ErrMalformedQueue)
		assert.Empty(t, out)
	})

	t.Run("unencodable attachment is stored as null", func(t *testing.T) {
		t.Parallel()

		blob, err := codec.Encode([]queue.Record{
			{ID: "a", Payload: map[string]any{"k": "v"}, Attachment: make(chan int)},
			{ID: "b", Attachment: "ok"},
		})
		require.NotNil(t, blob)
		assert.ErrorIs(t, err, queue.ErrAttachmentDropped)

		var raw []map[string]any
		require.NoError(t, json.Unmarshal(blob, &raw))
		require.Len(t, raw, 2)
		assert.NotContains(t, raw[0], "attachment")
		assert.Equal(t, map[string]any{"k": "v"}, raw[0]["payload"])
		assert.Equal(t, "ok", raw[1]["attachment"])
	})

	t.Run("unencodable payload skips the entry", func(t *testing.T) {
		t.Parallel()

		blob, err := codec.Encode([]queue.Record{
			{ID: "a", Payload: map[string]any{"fn": func() {}}},
			{ID: "b"},
		})
		require.NotNil(t, blob)
		assert.ErrorIs(t, err, queue.ErrEntrySkipped)

		out, err := codec.Decode(blob)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "b", out[0].ID)
	})
}
