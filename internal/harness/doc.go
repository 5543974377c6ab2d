// Package harness runs query scenarios: YAML files listing query documents
// together with the SQL, bindings or error each one must compile to.
//
// A scenario looks like:
//
//	name: blog_queries
//	description: Queries used by the blog
//	prefix: wp_            # optional, applied to every case
//	cases:
//	  - name: recent_posts
//	    document: ../queries/posts.yaml   # relative to the scenario file
//	    select: recent_posts              # document name inside the file
//	    expect:
//	      sql: |
//	        SELECT * FROM "wp_posts"
//	        LIMIT ?
//	      bindings: [10]
//	  - name: broken_offset
//	    query: {table: posts, offset: 5}
//	    expect:
//	      error: OFFSET is set but LIMIT is not
//	      error_kind: invalid_query
//
// INSERT queries with several statements are checked with expect.statements.
// RunWithGolden snapshots every compiled statement instead of checking
// expectations by hand.
package harness
