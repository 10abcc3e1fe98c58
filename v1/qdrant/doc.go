// Package qdrant adapts a Qdrant collection to vectordb.Service.
//
// # Namespaces
//
// Qdrant has no namespaces. The adapter searches a single collection
// (QDRANT_COLLECTION) and treats one payload field (QDRANT_NAMESPACE_FIELD,
// "namespace" by default) as the partition key: a search in namespace "docs"
// adds a must-match condition on that field, and DescribeNamespaces counts
// points per field value with a facet query. The field needs a keyword
// payload index for the facet query to succeed. An empty namespace searches
// the whole collection.
//
// # Filters
//
// Request filters use the Pinecone operator syntax and are translated with
// vectordb.ParseFilter:
//
//	{"genre": {"$in": ["drama"]}, "year": {"$gte": 2020}}
//
// becomes a Qdrant filter with a keyword match and a numeric range. Set
// operators ($in, $nin) accept strings or integers only, matching what
// Qdrant's match conditions support.
//
// # Startup
//
// NewAdapter health-checks the server and verifies the collection exists.
// Failures are logged and leave the adapter not ready; they never stop the
// broker from starting.
package qdrant
