package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectorTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	inspector := NewInspector(store)

	tables, err := inspector.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	importString(t, store, "b.csv", "x\n1\n", "beta")
	importString(t, store, "a.csv", "x\n1\n", "alpha")

	tables, err = inspector.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, tables)

	ok, err := inspector.TableExists(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inspector.TableExists(ctx, "gamma")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInspectorDescribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	inspector := NewInspector(store)

	_, err := inspector.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL, note)")
	require.NoError(t, err)

	def, err := inspector.Describe(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", def.Name)
	assert.Equal(t, []Column{
		{Name: "id", Type: "INTEGER", PrimaryKey: true},
		{Name: "email", Type: "TEXT", NotNull: true},
		{Name: "note", Type: "UNKNOWN"},
	}, def.Columns)

	_, err = inspector.Describe(ctx, "nope")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestInspectorRowCountAndSample(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	inspector := NewInspector(store)

	importString(t, store, "n.json", `[{"n":1},{"n":2},{"n":3}]`, "nums")

	count, err := inspector.RowCount(ctx, "nums")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	sample, err := inspector.Sample(ctx, "nums", 2)
	require.NoError(t, err)
	require.Len(t, sample, 2)
	assert.Equal(t, Integer(1), sample[0].Values[0])
	assert.Equal(t, Integer(2), sample[1].Values[0])

	_, err = inspector.RowCount(ctx, "missing")
	require.ErrorIs(t, err, ErrTableNotFound)
	_, err = inspector.Sample(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestInspectorExec(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	inspector := NewInspector(store)

	importString(t, store, "p.csv", "name,age\nAna,30\nBo,25\n", "people")

	res, err := inspector.Exec(ctx, "  select name from people order by name")
	require.NoError(t, err)
	assert.True(t, res.IsQuery)
	assert.Equal(t, []string{"name"}, res.Columns)
	assert.Equal(t, [][]Value{{Text("Ana")}, {Text("Bo")}}, res.Rows)

	res, err = inspector.Exec(ctx, "UPDATE people SET age = '31' WHERE name = 'Ana'")
	require.NoError(t, err)
	assert.False(t, res.IsQuery)
	assert.Equal(t, int64(1), res.RowsAffected)

	res, err = inspector.Exec(ctx, "WITH x AS (SELECT 1 AS one) SELECT one FROM x")
	require.NoError(t, err)
	assert.Equal(t, [][]Value{{Integer(1)}}, res.Rows)

	res, err = inspector.Exec(ctx, "SELECT * FROM people WHERE name = 'nobody'")
	require.NoError(t, err)
	assert.True(t, res.IsQuery)
	assert.Empty(t, res.Rows)

	_, err = inspector.Exec(ctx, "SELEC nonsense")
	require.ErrorIs(t, err, ErrStorage)
}

func TestInspectorExecReturningAndComments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	inspector := NewInspector(store)

	importString(t, store, "p.csv", "name,age\nAna,30\n", "people")

	res, err := inspector.Exec(ctx, "INSERT INTO people (name, age) VALUES ('Cy', '40') RETURNING name")
	require.NoError(t, err)
	assert.True(t, res.IsQuery)
	assert.Equal(t, [][]Value{{Text("Cy")}}, res.Rows)

	count, err := inspector.RowCount(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	res, err = inspector.Exec(ctx, "-- oldest first\n/* names only */ SELECT name FROM people ORDER BY age")
	require.NoError(t, err)
	assert.True(t, res.IsQuery)
	assert.Equal(t, [][]Value{{Text("Ana")}, {Text("Cy")}}, res.Rows)

	res, err = inspector.Exec(ctx, "SELECT x'fffe00' AS raw")
	require.NoError(t, err)
	assert.Equal(t, [][]Value{{Text("X'FFFE00'")}}, res.Rows)
}

func TestReturnsRows(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"select 1":                               true,
		"  WITH x AS (SELECT 1) SELECT * FROM x": true,
		"-- note\nselect 1":                      true,
		"/* a */ /* b */ pragma table_info(t)":   true,
		"DELETE FROM t RETURNING id":             true,
		"insert into t values (1)":               false,
		"update t set returning_flag = 1":        false,
		"-- only a comment":                      false,
		"create table t (a)":                     false,
	}
	for query, want := range tests {
		assert.Equal(t, want, returnsRows(query), query)
	}
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()

	_, err := NewStore("").Open(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)

	missingDir := filepath.Join(t.TempDir(), "no", "such", "dir", "db.sqlite")
	_, err = NewInspector(NewStore(missingDir)).Tables(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	removed, err := store.Remove()
	require.NoError(t, err)
	assert.False(t, removed)

	importString(t, store, "a.csv", "x\n1\n", "t")
	require.True(t, store.Exists())

	removed, err = store.Remove()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, store.Exists())

	_, err = os.Stat(store.Path)
	assert.True(t, os.IsNotExist(err))
}
