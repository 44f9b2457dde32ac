package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	input := "name,note\nAna,\"hello, world\"\nBo,plain\n"
	importString(t, store, "in.csv", input, "notes")

	out := filepath.Join(t.TempDir(), "out.csv")
	n, err := NewExporter(store).ExportCSV(ctx, "notes", out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, input, readFile(t, out))
}

func TestPeopleCSVToJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	importString(t, store, "people.csv", "name,age\nAna,30\nBo,25\n", "people")

	out := filepath.Join(t.TempDir(), "people.json")
	n, err := NewExporter(store).Export(ctx, "people", out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := `[
  {
    "name": "Ana",
    "age": "30"
  },
  {
    "name": "Bo",
    "age": "25"
  }
]`
	assert.Equal(t, want, readFile(t, out))
}

func TestExportJSONTypes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	importString(t, store, "in.json", `[{"id":1,"score":2.5,"tag":null,"name":"x"}]`, "t")

	out := filepath.Join(t.TempDir(), "t.json")
	_, err := NewExporter(store).ExportJSON(ctx, "t", out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"score":2.5,"tag":null,"name":"x"}]`, readFile(t, out))
}

func TestExportNullAsEmptyCSVField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	importString(t, store, "in.json", `[{"a":1,"b":null}]`, "t")

	out := filepath.Join(t.TempDir(), "t.csv")
	_, err := NewExporter(store).ExportCSV(ctx, "t", out)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\n", readFile(t, out))
}

func TestExportEmptyTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	_, err := NewInspector(store).Exec(ctx, `CREATE TABLE empty ("id", "name")`)
	require.NoError(t, err)

	dir := t.TempDir()
	ex := NewExporter(store)

	n, err := ex.ExportCSV(ctx, "empty", filepath.Join(dir, "empty.csv"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "id,name\n", readFile(t, filepath.Join(dir, "empty.csv")))

	n, err = ex.ExportJSON(ctx, "empty", filepath.Join(dir, "empty.json"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "[]", readFile(t, filepath.Join(dir, "empty.json")))
}

func TestExportMissingTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	out := filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewExporter(store).Export(ctx, "missing", out)
	require.ErrorIs(t, err, ErrTableNotFound)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportUnsupportedFormat(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	importString(t, store, "in.csv", "a\n1\n", "t")

	_, err := NewExporter(store).Export(context.Background(), "t", filepath.Join(t.TempDir(), "t.xml"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportCreatesDirectoriesAndReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	importString(t, store, "in.csv", "a\n1\n", "t")

	out := filepath.Join(t.TempDir(), "nested", "deeper", "t.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0755))
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))

	_, err := NewExporter(store).ExportCSV(ctx, "t", out)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", readFile(t, out))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestExportWriteError(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	importString(t, store, "in.csv", "a\n1\n", "t")

	// A regular file where a directory is expected.
	blocker := writeFile(t, "blocker", "x")
	_, err := NewExporter(store).ExportCSV(context.Background(), "t", filepath.Join(blocker, "t.csv"))
	require.ErrorIs(t, err, ErrWrite)
}

func TestExportSerializationError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	inspector := NewInspector(store)
	_, err := inspector.Exec(ctx, "CREATE TABLE blobs (data)")
	require.NoError(t, err)
	_, err = inspector.Exec(ctx, "INSERT INTO blobs VALUES (x'fffe00')")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "blobs.json")
	_, err = NewExporter(store).ExportJSON(ctx, "blobs", out)
	require.ErrorIs(t, err, ErrSerialization)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportDateColumnsKeepTextForm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	inspector := NewInspector(store)
	_, err := inspector.Exec(ctx, "CREATE TABLE ev (at DATETIME, day DATE, ts TIMESTAMP)")
	require.NoError(t, err)
	_, err = inspector.Exec(ctx, "INSERT INTO ev VALUES ('2024-01-02 03:04:05', '2024-01-02', '2024-01-02 03:04:05.25')")
	require.NoError(t, err)

	dir := t.TempDir()
	ex := NewExporter(store)

	_, err = ex.ExportCSV(ctx, "ev", filepath.Join(dir, "ev.csv"))
	require.NoError(t, err)
	assert.Equal(t, "at,day,ts\n2024-01-02 03:04:05,2024-01-02,2024-01-02 03:04:05.25\n", readFile(t, filepath.Join(dir, "ev.csv")))

	_, err = ex.ExportJSON(ctx, "ev", filepath.Join(dir, "ev.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"at":"2024-01-02 03:04:05","day":"2024-01-02","ts":"2024-01-02 03:04:05.25"}]`,
		readFile(t, filepath.Join(dir, "ev.json")))
}
