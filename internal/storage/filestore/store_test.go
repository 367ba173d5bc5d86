package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polkiloo/dispatch/internal/storage"
)

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	st, err := New(dir)
	require.NoError(t, err)
	require.Equal(t, dir, st.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	_, err = New("")
	require.Error(t, err)
}

func TestReadMissingCollection(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = st.Read(context.Background(), storage.CollectionOrders)
	require.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, storage.CollectionOrders, []byte(`{"orders":[]}`)))
	require.FileExists(t, filepath.Join(dir, "orders.json"))

	got, err := st.Read(ctx, storage.CollectionOrders)
	require.NoError(t, err)
	require.JSONEq(t, `{"orders":[]}`, string(got))

	require.NoError(t, st.Write(ctx, storage.CollectionOrders, []byte(`{"orders":[{"id":"1"}]}`)))
	got, err = st.Read(ctx, storage.CollectionOrders)
	require.NoError(t, err)
	require.JSONEq(t, `{"orders":[{"id":"1"}]}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestRejectsUnsafeCollection(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, st.Write(ctx, "../escape", []byte(`{}`)))
	_, err = st.Read(ctx, "../escape")
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestCanceledContext(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, st.Write(ctx, storage.CollectionUsers, []byte(`{}`)), context.Canceled)
	_, err = st.Read(ctx, storage.CollectionUsers)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, st.Ping(ctx), context.Canceled)
}

func TestPing(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, st.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	require.Error(t, st.Ping(context.Background()))
	require.NoError(t, st.Close())
}
