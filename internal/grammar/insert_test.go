package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/query"
)

func TestCompileInsert_MixedRows(t *testing.T) {
	q := query.New().
		From("posts").
		AddInsertRow(query.Set("title", "Foo"), query.Set("author_id", 12)).
		AddInsertRow(query.Set("title", "Bar"), query.Set("date", query.NewRaw("NOW()"))).
		AddInsertRow(query.Set("description", nil))

	statements, err := NewCompiler().CompileInsert(q)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	expected := `INSERT INTO "posts" ("title", "author_id", "date", "description")
VALUES (?, ?, DEFAULT, DEFAULT), (?, DEFAULT, (NOW()), DEFAULT), (DEFAULT, DEFAULT, DEFAULT, ?)`
	assert.Equal(t, expected, statements[0].SQL)
	assert.Equal(t, []any{"Foo", 12, "Bar", nil}, statements[0].Bindings)
}

func TestCompileInsert_MapRowsUseSortedColumns(t *testing.T) {
	q := query.New().From("users").AddInsert(
		map[string]any{"name": "ann", "age": 30},
		map[string]any{"name": "bob"},
	)

	raw := compile(t, q)

	assert.Equal(t, "INSERT INTO \"users\" (\"age\", \"name\")\nVALUES (?, ?), (DEFAULT, ?)", raw.SQL)
	assert.Equal(t, []any{30, "ann", "bob"}, raw.Bindings)
}

func TestCompileInsert_FromSelect(t *testing.T) {
	q := query.New().From("archive").AddInsertFromSelect(func(s *query.Query) {
		s.AddSelect("id", "title").From("posts").Where("created", "<", 2020)
	}, "id", "title")

	statements, err := NewCompiler().CompileInsert(q)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	expected := `INSERT INTO "archive" ("id", "title")
SELECT "id", "title" FROM "posts"
WHERE "created" < ?`
	assert.Equal(t, expected, statements[0].SQL)
	assert.Equal(t, []any{2020}, statements[0].Bindings)
}

func TestCompileInsert_FromSelectWithoutColumns(t *testing.T) {
	q := query.New().From("archive").AddInsertFromSelect(query.NewRaw("SELECT * FROM posts"))

	statements, err := NewCompiler().CompileInsert(q)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "INSERT INTO \"archive\"\nSELECT * FROM posts", statements[0].SQL)
}

func TestCompileInsert_ValuesThenSelects(t *testing.T) {
	q := query.New().
		From("t").
		AddInsertFromSelect(query.NewRaw("SELECT ?", 1), "a").
		AddInsert(map[string]any{"a": 2}).
		AddInsertFromSelect(query.NewRaw("SELECT ?", 3), "a")

	statements, err := NewCompiler().CompileInsert(q)
	require.NoError(t, err)
	require.Len(t, statements, 3)
	assert.Equal(t, "INSERT INTO \"t\" (\"a\")\nVALUES (?)", statements[0].SQL)
	assert.Equal(t, []any{2}, statements[0].Bindings)
	assert.Equal(t, "INSERT INTO \"t\" (\"a\")\nSELECT ?", statements[1].SQL)
	assert.Equal(t, []any{1}, statements[1].Bindings)
	assert.Equal(t, []any{3}, statements[2].Bindings)

	raw := compile(t, q)
	assert.Equal(t, "INSERT INTO \"t\" (\"a\")\nVALUES (?);\nINSERT INTO \"t\" (\"a\")\nSELECT ?;\nINSERT INTO \"t\" (\"a\")\nSELECT ?", raw.SQL)
	assert.Equal(t, []any{2, 1, 3}, raw.Bindings)
}

func TestCompileInsert_DefaultValues(t *testing.T) {
	q := query.New().From("counters").AddInsert(map[string]any{}, map[string]any{})

	statements, err := NewCompiler().CompileInsert(q)
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, `INSERT INTO "counters" DEFAULT VALUES`, statements[0].SQL)
}

func TestCompileInsert_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		query   *query.Query
		message string
	}{
		{
			name:    "missing table",
			query:   query.New().AddInsert(map[string]any{"a": 1}),
			message: "INSERT target table is not set",
		},
		{
			name:    "alias",
			query:   query.New().SetTable("t", "x").AddInsert(map[string]any{"a": 1}),
			message: "table alias is not allowed in INSERT query",
		},
		{
			name:    "no values",
			query:   query.New().From("t"),
			message: "INSERT values are not set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCompiler().CompileInsert(tc.query)
			require.Error(t, err)
			assert.True(t, IsInvalidQuery(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}
