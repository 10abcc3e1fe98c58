package server

import (
	"context"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

// Broker is what the handlers need from the query pipeline.
//
// *broker.Pipeline implements it.
type Broker interface {
	Run(ctx context.Context, q broker.Query) (*broker.Result, error)
	Namespaces(ctx context.Context) (map[string]vectordb.NamespaceStats, error)
	Status() vectordb.Status
}

// Normalizer turns request bodies into queries.
//
// *broker.Normalizer implements it.
type Normalizer interface {
	Normalize(raw []byte) (broker.Query, error)
}

// Diagnostics is the non-secret configuration summary shown by GET /.
// Settings maps variable names to whether they are set, never to values.
type Diagnostics struct {
	Backend           string
	DefaultNamespace  string
	Settings          map[string]bool
	IndexName         string
	ServerURL         string
	EnvironmentPrefix string
}

const healthMessage = "Vector broker is running"

type healthResponse struct {
	Status            string       `json:"status"`
	Message           string       `json:"message"`
	PineconeConnected bool         `json:"pineconeConnected"`
	IndexConnected    bool         `json:"indexConnected"`
	Config            healthConfig `json:"config"`
}

type healthConfig struct {
	IndexName         string          `json:"index_name"`
	ServerURL         string          `json:"server_url"`
	Backend           string          `json:"backend"`
	DefaultNamespace  string          `json:"default_namespace"`
	Settings          map[string]bool `json:"settings"`
	EnvironmentPrefix string          `json:"environment_prefix,omitempty"`
}

type errorResponse struct {
	Error        string `json:"error"`
	Details      string `json:"details,omitempty"`
	Stage        string `json:"stage,omitempty"`
	ReceivedBody any    `json:"receivedBody,omitempty"`
}

type namespaceStats struct {
	VectorCount uint64 `json:"vectorCount"`
}
