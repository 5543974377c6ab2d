package prefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/grammar"
	"github.com/roach88/scribe/internal/query"
)

func compile(t *testing.T, q *query.Query) query.Raw {
	t.Helper()
	raw, err := grammar.NewCompiler().Compile(q)
	require.NoError(t, err)
	return raw
}

func TestTable(t *testing.T) {
	p := New("wp_", nil)

	assert.Equal(t, "wp_posts", p.Table("posts"))
	assert.Equal(t, "main.wp_posts", p.Table("main.posts"))
	assert.Equal(t, "wp_", p.Prefix())
}

func TestApply_RootOnly(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		From("posts").
		AddSelect("posts.id", "title").
		InnerJoin("users", "", "users.id", "posts.author_id").
		Where("users.name", "=", "ann").
		OrderBy("posts.id", "desc")

	raw := compile(t, p.Apply(q))

	expected := `SELECT "wp_posts"."id", "title" FROM "wp_posts"
INNER JOIN "wp_users" ON "wp_users"."id" = "wp_posts"."author_id"
WHERE "wp_users"."name" = ?
ORDER BY "wp_posts"."id" DESC`
	assert.Equal(t, expected, raw.SQL)
	assert.Equal(t, []any{"ann"}, raw.Bindings)
}

func TestApply_AliasedTablesKeepColumns(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		SetTable("posts", "p").
		InnerJoin("users", "u", "u.id", "p.author_id").
		AddSelect("p.id")

	raw := compile(t, p.Apply(q))

	expected := `SELECT "p"."id" FROM "wp_posts" AS "p"
INNER JOIN "wp_users" AS "u" ON "u"."id" = "p"."author_id"`
	assert.Equal(t, expected, raw.SQL)
}

func TestApply_RewritesNestedQueries(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		From("users").
		WhereIn("users.id", func(s *query.Query) {
			s.AddSelect("posts.author_id").From("posts").WhereExists(func(e *query.Query) {
				e.From("comments").WhereColumn("comments.post_id", "=", "posts.id")
			})
		})

	sub := q.Wheres[0].(query.InCriterion).Subquery.(*query.Query)
	assert.Equal(t, query.Identifier("posts"), sub.Table, "subquery waits for Apply")
	assert.Equal(t, query.Identifier("users"), q.Table, "root waits for Apply")

	raw := compile(t, p.Apply(q))

	expected := `SELECT * FROM "wp_users"
WHERE "wp_users"."id" IN (SELECT "wp_posts"."author_id" FROM "wp_posts"
WHERE EXISTS (SELECT * FROM "wp_comments"
WHERE "wp_comments"."post_id" = "wp_posts"."id"))`
	assert.Equal(t, expected, raw.SQL)
}

func TestApply_TableAddedAfterSubquery(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		WhereExists(func(s *query.Query) {
			s.From("comments").WhereColumn("comments.post_id", "=", "posts.id")
		}).
		From("posts")

	raw := compile(t, p.Apply(q))

	expected := `SELECT * FROM "wp_posts"
WHERE EXISTS (SELECT * FROM "wp_comments"
WHERE "wp_comments"."post_id" = "wp_posts"."id")`
	assert.Equal(t, expected, raw.SQL)
}

func TestApply_JoinAddedAfterSelectSubquery(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		From("posts").
		AddSelectAs(func(s *query.Query) {
			s.AddSelect("name").From("profiles").WhereColumn("profiles.user_id", "=", "users.id")
		}, "author").
		InnerJoin("users", "", "users.id", "posts.author_id")

	raw := compile(t, p.Apply(q))

	expected := `SELECT (SELECT "name" FROM "wp_profiles"
WHERE "wp_profiles"."user_id" = "wp_users"."id") AS "author" FROM "wp_posts"
INNER JOIN "wp_users" ON "wp_users"."id" = "wp_posts"."author_id"`
	assert.Equal(t, expected, raw.SQL)
}

func TestResolveSubQuery_CorrelatedReferences(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().
		From("users").
		WhereGroup(func(g *query.Query) {
			g.WhereExists(func(s *query.Query) {
				s.From("posts").WhereColumn("posts.author_id", "=", "users.id")
			}).OrWhereNull("users.deleted_at")
		})

	raw := compile(t, p.Apply(q))

	expected := `SELECT * FROM "wp_users"
WHERE (EXISTS (SELECT * FROM "wp_posts"
WHERE "wp_posts"."author_id" = "wp_users"."id") OR "wp_users"."deleted_at" IS NULL)`
	assert.Equal(t, expected, raw.SQL)
}

func TestApply_Idempotent(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().From("posts").Where("posts.id", "=", 1)

	p.Apply(q)
	p.Apply(q)

	raw := compile(t, q)
	assert.Equal(t, "SELECT * FROM \"wp_posts\"\nWHERE \"wp_posts\".\"id\" = ?", raw.SQL)
}

func TestApply_AttachedQueryWithoutCallback(t *testing.T) {
	p := New("wp_", nil)
	inner := query.New().From("posts").AddSelect("posts.id")
	q := p.NewQuery().From("users").WhereIn("users.id", inner)

	raw := compile(t, p.Apply(q))

	expected := `SELECT * FROM "wp_users"
WHERE "wp_users"."id" IN (SELECT "wp_posts"."id" FROM "wp_posts")`
	assert.Equal(t, expected, raw.SQL)
}

func TestApply_InsertUpdateDelete(t *testing.T) {
	p := New("wp_", nil)

	insert := p.NewQuery().From("archive").AddInsertFromSelect(func(s *query.Query) {
		s.AddSelect("posts.id").From("posts")
	}, "id")
	raw := compile(t, p.Apply(insert))
	assert.Equal(t, "INSERT INTO \"wp_archive\" (\"id\")\nSELECT \"wp_posts\".\"id\" FROM \"wp_posts\"", raw.SQL)

	update := p.NewQuery().From("posts").AddUpdateSet(query.Set("posts.views", 0))
	raw = compile(t, p.Apply(update))
	assert.Equal(t, "UPDATE \"wp_posts\"\nSET \"wp_posts\".\"views\" = ?", raw.SQL)

	del := p.NewQuery().From("posts").SetDelete(true).SetLimit(1)
	raw = compile(t, p.Apply(del))
	assert.Equal(t, "DELETE FROM \"wp_posts\"\nLIMIT ?", raw.SQL)
}

func TestApply_RawTablesUntouched(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().SetTable(query.NewRaw("SELECT 1 AS n"), "t").AddSelect("t.n")

	raw := compile(t, p.Apply(q))
	assert.Equal(t, `SELECT "t"."n" FROM (SELECT 1 AS n) AS "t"`, raw.SQL)
}

func TestResolveSubQuery_PropagatesErrors(t *testing.T) {
	p := New("wp_", nil)
	q := p.NewQuery().From("users").WhereIn("id", func(s *query.Query) {
		s.From(1)
	})

	require.Error(t, q.Err())
	assert.True(t, query.IsInvalidArgument(q.Err()))
}

func TestApply_Nil(t *testing.T) {
	assert.Nil(t, New("x_", nil).Apply(nil))
}
