package config

import (
	"sort"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/server"
)

// prefixLen is how many characters of a non-secret value may be shown.
const prefixLen = 3

// Presence reports, per environment variable, whether it carries a value.
// Values themselves are never included.
func (c *Config) Presence() map[string]bool {
	p := map[string]bool{
		"EMBEDDING_API_KEY": c.Embedding.APIKey != "",
		"OPENAI_API_KEY":    c.Embedding.OpenAIAPIKey != "",
	}
	switch c.VectorDB.Backend {
	case BackendQdrant:
		p["QDRANT_API_KEY"] = c.Qdrant.ApiKey != ""
		p["QDRANT_COLLECTION"] = c.Qdrant.Collection != ""
	default:
		p["PINECONE_API_KEY"] = c.Pinecone.APIKey != ""
		p["PINECONE_INDEX_NAME"] = c.Pinecone.IndexName != ""
		p["PINECONE_ENVIRONMENT"] = c.Pinecone.Environment != ""
		p["PINECONE_HOST"] = c.Pinecone.Host != ""
	}
	return p
}

// Prefix returns the first few characters of a non-secret value followed by
// "...", or "N/A" when the value is empty.
func Prefix(v string) string {
	if v == "" {
		return "N/A"
	}
	if len(v) <= prefixLen {
		return v + "..."
	}
	return v[:prefixLen] + "..."
}

// LogPresence writes the startup environment check.
func (c *Config) LogPresence(log logger.Logger) {
	presence := c.Presence()
	keys := make([]string, 0, len(presence))
	for k := range presence {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]interface{}, len(keys)+4)
	for _, k := range keys {
		if presence[k] {
			fields[k] = "[SET]"
		} else {
			fields[k] = "[NOT SET]"
		}
	}
	fields["PORT"] = c.Server.Port
	fields["VECTORDB_BACKEND"] = c.VectorDB.Backend
	fields["EMBEDDING_PROVIDER"] = c.Embedding.Provider
	if c.VectorDB.Backend == BackendPinecone {
		fields["PINECONE_ENVIRONMENT_PREFIX"] = Prefix(c.Pinecone.Environment)
	}

	log.Info("environment check", nil, fields)
}

// Diagnostics is the non-secret view of the configuration served by the
// health endpoint.
func (c *Config) Diagnostics() server.Diagnostics {
	d := server.Diagnostics{
		Backend:          c.VectorDB.Backend,
		DefaultNamespace: c.Broker.DefaultNamespace,
		Settings:         c.Presence(),
	}
	switch c.VectorDB.Backend {
	case BackendQdrant:
		d.IndexName = c.Qdrant.Collection
		d.ServerURL = c.Qdrant.Endpoint
	default:
		d.IndexName = c.Pinecone.IndexName
		d.ServerURL = c.Pinecone.Host
		d.EnvironmentPrefix = Prefix(c.Pinecone.Environment)
	}
	return d
}
