// Package pinecone adapts the Pinecone vector database to vectordb.Service.
//
// Two protocol variants are available behind the same contract:
//
//   - sdk: the official go-pinecone client. The index host is taken from
//     PINECONE_HOST or looked up with DescribeIndex; data-plane connections
//     are opened per namespace on first use and cached.
//   - rest: plain HTTP against the data plane with a flat /query body. The
//     host comes from PINECONE_HOST, the legacy controller
//     (controller.<PINECONE_ENVIRONMENT>.pinecone.io) or the control plane.
//
// Filters are forwarded unchanged in Pinecone's own operator syntax.
//
// Neither variant fails application startup. If credentials are missing or
// the index cannot be found the adapter reports IndexReady=false and every
// Search returns vectordb.ErrNotConnected.
package pinecone
