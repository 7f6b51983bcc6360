package doctor

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/painel/internal/core/board"
	"github.com/hay-kot/painel/internal/core/kv"
	"github.com/hay-kot/painel/internal/data/db"
	"github.com/hay-kot/painel/internal/data/stores"
)

type fakeCheck struct {
	name  string
	items []CheckItem
}

func (f fakeCheck) Name() string { return f.name }

func (f fakeCheck) Run(context.Context) Result {
	return Result{Name: f.name, Items: append([]CheckItem(nil), f.items...)}
}

func TestRunAll_SummaryAndFixable(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		fakeCheck{name: "a", items: []CheckItem{
			{Label: "one", Status: StatusPass},
			{Label: "two", Status: StatusWarn, Fixable: true},
		}},
		fakeCheck{name: "b", items: []CheckItem{
			{Label: "three", Status: StatusFail, Fixable: true},
			{Label: "four", Status: StatusPass, Fixable: true},
		}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "warn", results[0].Items[1].StatusStr)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, CountFixable(results))
}

func newTestStorage(t *testing.T) (*db.DB, kv.KV) {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database, stores.NewKVStore(database)
}

// writeRaw stores bytes that KV.Set would refuse to marshal.
func writeRaw(t *testing.T, database *db.DB, key, value string) {
	t.Helper()
	now := time.Now().UnixNano()
	require.NoError(t, database.Queries().KVSet(context.Background(), db.KVSetParams{
		Key:       key,
		Value:     []byte(value),
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestStorageCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		database, store := newTestStorage(t)
		result := NewStorageCheck(database.Conn(), store, false).Run(ctx)

		require.Len(t, result.Items, 3)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, StatusWarn, result.Items[1].Status)
		assert.Equal(t, StatusPass, result.Items[2].Status)
		assert.Contains(t, result.Items[2].Detail, "configured endpoint")
	})

	t.Run("saved document and offline endpoint", func(t *testing.T) {
		database, store := newTestStorage(t)
		bs := stores.NewBoardStore(store, zerolog.Nop())
		require.NoError(t, bs.SaveDocument(ctx, board.Default()))
		require.NoError(t, bs.SaveEndpoint(ctx, ""))

		result := NewStorageCheck(database.Conn(), store, false).Run(ctx)

		assert.Equal(t, StatusPass, result.Items[1].Status)
		assert.Contains(t, result.Items[1].Detail, "outbound")
		assert.Equal(t, "offline", result.Items[2].Detail)
	})

	t.Run("unreadable document", func(t *testing.T) {
		database, store := newTestStorage(t)
		writeRaw(t, database, stores.DocumentKey, `{"outbound": [`)

		result := NewStorageCheck(database.Conn(), store, false).Run(ctx)

		item := result.Items[1]
		assert.Equal(t, StatusFail, item.Status)
		assert.True(t, item.Fixable)

		has, err := store.Has(ctx, stores.DocumentKey)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("autofix removes unreadable document", func(t *testing.T) {
		database, store := newTestStorage(t)
		writeRaw(t, database, stores.DocumentKey, "not json")

		result := NewStorageCheck(database.Conn(), store, true).Run(ctx)

		assert.Equal(t, StatusPass, result.Items[1].Status)
		has, err := store.Has(ctx, stores.DocumentKey)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

type fakeFetcher struct {
	body []byte
	err  error
	got  string
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string) ([]byte, error) {
	f.got = endpoint
	return f.body, f.err
}

func TestRemoteCheck(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		fetcher  *fakeFetcher
		want     []Status
	}{
		{
			name:    "offline",
			fetcher: &fakeFetcher{},
			want:    []Status{StatusWarn},
		},
		{
			name:     "unreachable",
			endpoint: "https://example.test/doc",
			fetcher:  &fakeFetcher{err: errors.New("connection refused")},
			want:     []Status{StatusFail},
		},
		{
			name:     "not json",
			endpoint: "https://example.test/doc",
			fetcher:  &fakeFetcher{body: []byte("<html>")},
			want:     []Status{StatusPass, StatusFail},
		},
		{
			name:     "no marker",
			endpoint: "https://example.test/doc",
			fetcher:  &fakeFetcher{body: []byte(`{"outbound": []}`)},
			want:     []Status{StatusPass, StatusWarn},
		},
		{
			name:     "healthy",
			endpoint: "https://example.test/doc",
			fetcher:  &fakeFetcher{body: []byte(`{"lastUpdated": "10:42"}`)},
			want:     []Status{StatusPass, StatusPass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewRemoteCheck(tt.fetcher, tt.endpoint, time.Second).Run(context.Background())

			got := make([]Status, len(result.Items))
			for i, item := range result.Items {
				got[i] = item.Status
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.endpoint, tt.fetcher.got)
		})
	}
}

func TestRemoteCheck_ReportsLastUpdated(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(`{"lastUpdated": "10:42"}`)}
	result := NewRemoteCheck(fetcher, "https://example.test/doc", 0).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "last updated 10:42", result.Items[1].Detail)
}

func TestConfigCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		result := NewConfigCheck("/etc/painel.yaml", func() error { return nil }).Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, "/etc/painel.yaml", result.Items[0].Detail)
	})

	t.Run("field errors", func(t *testing.T) {
		var b criterio.FieldErrorsBuilder
		b = b.Append("endpoint", errors.New("missing host"))
		b = b.Append("tui.theme", errors.New("unknown theme"))

		result := NewConfigCheck("", b.ToError).Run(context.Background())
		require.Len(t, result.Items, 2)
		assert.Equal(t, "endpoint", result.Items[0].Label)
		assert.Equal(t, StatusFail, result.Items[1].Status)
	})

	t.Run("other error", func(t *testing.T) {
		result := NewConfigCheck("", func() error { return os.ErrPermission }).Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}
