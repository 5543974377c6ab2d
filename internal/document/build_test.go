package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/grammar"
	"github.com/roach88/scribe/internal/prefix"
	"github.com/roach88/scribe/internal/query"
)

func parseOne(t *testing.T, src string) *Document {
	t.Helper()
	docs, err := Parse([]byte(src), FormatYAML, "inline.yaml")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0]
}

func buildAndCompile(t *testing.T, doc *Document, opts ...query.Option) query.Raw {
	t.Helper()
	q, err := doc.Build(opts...)
	require.NoError(t, err)
	raw, err := grammar.NewCompiler().Compile(q)
	require.NoError(t, err)
	return raw
}

func TestBuild_TestdataDocuments(t *testing.T) {
	yamlDocs, err := Load("testdata/recent_posts.yaml")
	require.NoError(t, err)
	cueDocs, err := Load("testdata/top_authors.cue")
	require.NoError(t, err)

	testCases := []struct {
		doc      *Document
		sql      string
		bindings []any
	}{
		{
			doc: yamlDocs[0],
			sql: `SELECT "p"."id", "p"."title", "u"."name" AS "author" FROM "posts" AS "p"
LEFT JOIN "users" AS "u" ON "u"."id" = "p"."author_id"
WHERE "p"."status" = ? AND "u"."deleted_at" IS NULL OR ("p"."pinned" = ? AND "p"."views" > ?)
ORDER BY "p"."pinned" IS NULL, "p"."created_at" DESC
LIMIT ?
OFFSET ?`,
			bindings: []any{"published", true, 1000, 10, 20},
		},
		{
			doc: yamlDocs[1],
			sql: `INSERT INTO "archive" ("id", "title")
SELECT "id", "title" FROM "posts"
WHERE "created_at" < ?`,
			bindings: []any{"2020-01-01"},
		},
		{
			doc: cueDocs[0],
			sql: `SELECT "users"."name", COUNT(*) AS "posts" FROM "users"
INNER JOIN "posts" ON "posts"."author_id" = "users"."id"
WHERE "users"."active" = ?
ORDER BY COUNT(*) DESC
LIMIT ?`,
			bindings: []any{true, 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.doc.Name, func(t *testing.T) {
			raw := buildAndCompile(t, tc.doc)
			assert.Equal(t, tc.sql, raw.SQL)
			assert.Equal(t, tc.bindings, raw.Bindings)
		})
	}
}

func TestBuild_InsertRows(t *testing.T) {
	doc := parseOne(t, `
name: mixed
query:
  table: posts
  insert:
    - {title: Foo, author_id: 12}
    - {title: Bar, date: {raw: "NOW()"}}
    - {description: null}
`)

	raw := buildAndCompile(t, doc)

	assert.Equal(t, `INSERT INTO "posts" ("title", "author_id", "date", "description")
VALUES (?, ?, DEFAULT, DEFAULT), (?, DEFAULT, (NOW()), DEFAULT), (DEFAULT, DEFAULT, DEFAULT, ?)`, raw.SQL)
	assert.Equal(t, []any{"Foo", 12, "Bar", nil}, raw.Bindings)
}

func TestBuild_UpdateAndDelete(t *testing.T) {
	update := parseOne(t, `
name: hide
query:
  table: posts
  update: {hidden: true, views: 0}
  where:
    - {column: id, in: [1, 2]}
`)
	raw := buildAndCompile(t, update)
	assert.Equal(t, "UPDATE \"posts\"\nSET \"hidden\" = ?, \"views\" = ?\nWHERE \"id\" IN (?, ?)", raw.SQL)
	assert.Equal(t, []any{true, 0, 1, 2}, raw.Bindings)

	del := parseOne(t, `
name: purge
query:
  table: sessions
  delete: true
  where:
    - {column: expires_at, not: true, between: [1, 100]}
`)
	raw = buildAndCompile(t, del)
	assert.Equal(t, "DELETE FROM \"sessions\"\nWHERE \"expires_at\" NOT BETWEEN ? AND ?", raw.SQL)
}

func TestBuild_Subqueries(t *testing.T) {
	doc := parseOne(t, `
name: nested
query:
  from:
    table: events
    where:
      - {column: kind, value: click}
  alias: e
  select:
    - e.user_id
    - as: total
      query:
        table: orders
        select: [{aggregate: sum, column: amount}]
        where:
          - {column: orders.user_id, other: e.user_id}
  where:
    - column: e.user_id
      in_query:
        table: users
        select: [id]
        where:
          - {column: banned, value: false}
    - or: true
      not: true
      exists:
        table: bans
        where:
          - {column: bans.user_id, other: e.user_id}
    - {column: e.score, op: ">", value: {query: {table: stats, select: [{aggregate: avg, column: score}]}}}
  order:
    - {column: e.kind, explicit: [click, view], others_first: true}
    - {random: true}
  limit: {raw: "(SELECT 5)"}
`)

	raw := buildAndCompile(t, doc)

	expected := `SELECT "e"."user_id", (SELECT SUM("amount") FROM "orders"
WHERE "orders"."user_id" = "e"."user_id") AS "total" FROM (SELECT * FROM "events"
WHERE "kind" = ?) AS "e"
WHERE "e"."user_id" IN (SELECT "id" FROM "users"
WHERE "banned" = ?) OR NOT EXISTS (SELECT * FROM "bans"
WHERE "bans"."user_id" = "e"."user_id") AND "e"."score" > (SELECT AVG("score") FROM "stats")
ORDER BY CASE "e"."kind" WHEN ? THEN 0 WHEN ? THEN 1 ELSE -1 END, RANDOM()
LIMIT ((SELECT 5))`
	assert.Equal(t, expected, raw.SQL)
	assert.Equal(t, []any{"click", false, "click", "view"}, raw.Bindings)
}

func TestBuild_WithPrefix(t *testing.T) {
	doc := parseOne(t, `
name: prefixed
query:
  table: posts
  where:
    - exists:
        table: comments
        where:
          - {column: comments.post_id, other: posts.id}
`)
	p := prefix.New("wp_", nil)
	q, err := doc.Build(query.WithResolver(p))
	require.NoError(t, err)

	raw, err := grammar.NewCompiler().Compile(p.Apply(q))
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "wp_posts"
WHERE EXISTS (SELECT * FROM "wp_comments"
WHERE "wp_comments"."post_id" = "wp_posts"."id")`, raw.SQL)
}

func TestBuild_WithPrefixCorrelatesJoinedTables(t *testing.T) {
	doc := parseOne(t, `
name: badges
query:
  table: posts
  select:
    - as: badge
      query:
        table: badges
        select: [{column: badges.label}]
        where:
          - {column: badges.user_id, other: users.id}
  joins:
    - table: users
      on:
        - {column: users.id, other: posts.author_id}
`)
	p := prefix.New("wp_", nil)
	q, err := doc.Build(query.WithResolver(p))
	require.NoError(t, err)

	raw, err := grammar.NewCompiler().Compile(p.Apply(q))
	require.NoError(t, err)
	assert.Equal(t, `SELECT (SELECT "wp_badges"."label" FROM "wp_badges"
WHERE "wp_badges"."user_id" = "wp_users"."id") AS "badge" FROM "wp_posts"
INNER JOIN "wp_users" ON "wp_users"."id" = "wp_posts"."author_id"`, raw.SQL)
}

func TestBuild_NormalizesIdentifiers(t *testing.T) {
	doc := &Document{Name: "nfc", Query: Query{Table: "cafe\u0301", Select: []Column{{Column: " na\u0308me "}}}}

	q, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, query.Identifier("caf\u00e9"), q.Table)
	assert.Equal(t, query.Identifier("n\u00e4me"), q.Selects[0].Expr)
}

func TestBuild_FieldErrors(t *testing.T) {
	testCases := []struct {
		name  string
		query Query
		field string
	}{
		{
			name:  "table and from",
			query: Query{Table: "a", From: &Query{Table: "b"}},
			field: "query",
		},
		{
			name:  "alias without table",
			query: Query{Alias: "x"},
			field: "query",
		},
		{
			name:  "empty column",
			query: Query{Table: "t", Select: []Column{{As: "x"}}},
			field: "query.select[0]",
		},
		{
			name:  "unknown aggregate",
			query: Query{Table: "t", Select: []Column{{Aggregate: "median", Column: "a"}}},
			field: "query.select[0]",
		},
		{
			name:  "join without table",
			query: Query{Table: "t", Joins: []Join{{Alias: "x"}}},
			field: "query.joins[0]",
		},
		{
			name:  "unknown join type",
			query: Query{Table: "t", Joins: []Join{{Type: "sideways", Table: "u"}}},
			field: "query.joins[0]",
		},
		{
			name:  "cross join with on",
			query: Query{Table: "t", Joins: []Join{{Type: "cross", Table: "u", On: []Condition{{Column: "a", Other: "b"}}}}},
			field: "query.joins[0]",
		},
		{
			name:  "condition without kind",
			query: Query{Table: "t", Where: []Condition{{Column: "a"}}},
			field: "query.where[0]",
		},
		{
			name:  "conflicting kinds",
			query: Query{Table: "t", Where: []Condition{{Column: "a", Other: "b", Raw: &Raw{SQL: "1"}}}},
			field: "query.where[0]",
		},
		{
			name:  "missing column",
			query: Query{Table: "t", Where: []Condition{{Value: &Value{Literal: 1}}}},
			field: "query.where[0]",
		},
		{
			name:  "not on value",
			query: Query{Table: "t", Where: []Condition{{Column: "a", Not: true, Value: &Value{Literal: 1}}}},
			field: "query.where[0]",
		},
		{
			name:  "between arity",
			query: Query{Table: "t", Where: []Condition{{Column: "a", Between: []Value{{Literal: 1}}}}},
			field: "query.where[0]",
		},
		{
			name:  "order without column",
			query: Query{Table: "t", Order: []OrderEntry{{Desc: true}}},
			field: "query.order[0]",
		},
		{
			name:  "bad nulls",
			query: Query{Table: "t", Order: []OrderEntry{{Column: "a", Nulls: "middle"}}},
			field: "query.order[0]",
		},
		{
			name:  "insert_from without source",
			query: Query{Table: "t", InsertFrom: []InsertFrom{{Columns: []string{"a"}}}},
			field: "query.insert_from[0]",
		},
		{
			name:  "error inside group",
			query: Query{Table: "t", Where: []Condition{{Group: []Condition{{Column: "a"}}}}},
			field: "query.where[0].group[0]",
		},
		{
			name:  "error inside subquery",
			query: Query{From: &Query{Table: "t", Select: []Column{{}}}},
			field: "query.from.select[0]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &Document{Name: "bad", Query: tc.query}
			_, err := doc.Build()
			require.Error(t, err)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestBuild_BuilderErrorsAreWrapped(t *testing.T) {
	doc := &Document{Name: "bad_limit", Query: Query{Table: "t", Limit: &Value{Literal: "ten"}}}

	_, err := doc.Build()
	require.Error(t, err)
	assert.True(t, query.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "document bad_limit: ")
}

func TestBuild_NullCondition(t *testing.T) {
	yes, no := true, false
	testCases := []struct {
		name      string
		condition Condition
		expected  string
	}{
		{name: "null", condition: Condition{Column: "a", Null: &yes}, expected: `"a" IS NULL`},
		{name: "not null", condition: Condition{Column: "a", Null: &no}, expected: `"a" IS NOT NULL`},
		{name: "negated null", condition: Condition{Column: "a", Null: &yes, Not: true}, expected: `"a" IS NOT NULL`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &Document{Name: tc.name, Query: Query{Table: "t", Where: []Condition{tc.condition}}}
			raw := buildAndCompile(t, doc)
			assert.Equal(t, "SELECT * FROM \"t\"\nWHERE "+tc.expected, raw.SQL)
		})
	}
}
