// Package embedding turns query text into embedding vectors through an
// external provider.
//
// The package exposes a single entrypoint, Client, which hides endpoint
// paths, authentication and provider SDKs:
//
//	client, err := embedding.NewClient(cfg, log)
//	vec, err := client.Embed(ctx, "what is a vector index?")
//
// Two providers are available, selected with EMBEDDING_PROVIDER:
//
//   - "openai" uses langchaingo's OpenAI client. EMBEDDING_ENDPOINT may point
//     it at any OpenAI-compatible server.
//   - "inference" posts {"model", "input"} to <EMBEDDING_ENDPOINT>/embeddings
//     with a bearer token and W3C trace context headers.
//
// # Errors
//
// Embed returns ErrNoCredential when neither EMBEDDING_API_KEY nor
// OPENAI_API_KEY is set, and *ProviderError for transport failures,
// timeouts, non-2xx responses and responses without an embedding.
// No call is ever retried.
package embedding
