// Package document loads declarative query documents and builds them into
// query.Query values.
//
// A document is YAML (or JSON) or CUE:
//
//	name: recent_posts
//	query:
//	  table: posts
//	  select: [id, title]
//	  where:
//	    - {column: status, value: published}
//	    - or: true
//	      group:
//	        - {column: author_id, in: [1, 2]}
//	  order:
//	    - {column: created_at, desc: true}
//	  limit: 10
//
// Nested queries (from, in_query, exists, value.query) and groups are built
// through the builder callbacks, so a resolver installed on the root query
// sees every one of them. Identifiers are normalized to Unicode NFC.
package document
