// Package broker implements the query path of the vector broker.
//
// A request body goes through three steps:
//
//  1. Normalizer.Normalize parses the body into a Query. Text may arrive
//     under "query", "text" or "question", or as a bare JSON string; a
//     "vector" field bypasses embedding. Missing fields take the configured
//     defaults.
//  2. Pipeline.Run embeds text queries, searches the index and shapes the
//     matches: sorted by descending score, at most topK, metadata only when
//     requested and vector values only when includeValues is set.
//  3. Classify maps any error to an HTTP status.
//
// # Errors
//
//   - *InvalidInputError (ErrInvalidInput, 400) for unusable bodies and
//     filters. No upstream is called.
//   - *StageError with Kind ErrUpstreamUnavailable (503) when the embedding
//     credential is missing or the index was never connected.
//   - *StageError with Kind ErrUpstreamError (500) for any other upstream
//     failure, including timeouts and wrong-length embeddings.
//
// StageError.Stage is "embedding" or "search". Nothing is retried.
package broker
