package qdrant

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"github.com/Aleph-Alpha/vectorbroker/v1/vectordb"
)

const testDimension = 8

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port int
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: strconv.Itoa(port)}},
	}

	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.13.4",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mapped, err := c.MappedPort(ctx, "6334")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &QdrantContainer{Container: c, Host: host, Port: mapped.Int()}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// seedCollection creates the collection, a keyword index on the namespace
// field and a handful of points in two namespaces.
func seedCollection(ctx context.Context, t *testing.T, host string, port int, name string) [][]float32 {
	t.Helper()

	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port, SkipCompatibilityCheck: true})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     testDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	}))

	wait := true
	_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: name,
		FieldName:      "namespace",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           &wait,
	})
	require.NoError(t, err)

	vectors := make([][]float32, 5)
	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for i := range vectors {
		vectors[i] = generateRandomVector(testDimension)
		ns := "docs"
		if i >= 3 {
			ns = "faq"
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i + 1)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"namespace": ns,
				"title":     fmt.Sprintf("doc-%d", i+1),
				"year":      int64(2018 + i),
			}),
		})
	}

	_, err = client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         points,
		Wait:           &wait,
	})
	require.NoError(t, err)
	return vectors
}

func TestQdrantAdapterWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	qc, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := qc.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	const collection = "broker_test"
	vectors := seedCollection(ctx, t, qc.Host, qc.Port, collection)

	var svc vectordb.Service
	app := fxtest.New(t,
		fx.Supply(Config{
			Endpoint:       qc.Host,
			Port:           qc.Port,
			Collection:     collection,
			NamespaceField: "namespace",
			ConnectTimeout: 10 * time.Second,
		}),
		fx.Provide(func() logger.Logger { return logger.NewNop() }),
		FXModule,
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, svc)
	st := svc.Status()
	require.True(t, st.IndexReady)
	assert.Equal(t, collection, st.IndexName)

	t.Run("SearchWithinNamespace", func(t *testing.T) {
		results, err := svc.Search(ctx, vectordb.SearchRequest{
			Namespace:       "docs",
			Vector:          vectors[0],
			TopK:            10,
			IncludeMetadata: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "1", results[0].ID)
		assert.InDelta(t, 1.0, results[0].Score, 1e-4)
		assert.Equal(t, "doc-1", results[0].Metadata["title"])
		assert.NotContains(t, results[0].Metadata, "namespace")
		assert.Nil(t, results[0].Values)

		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("SearchWithFilterAndValues", func(t *testing.T) {
		results, err := svc.Search(ctx, vectordb.SearchRequest{
			Namespace:     "docs",
			Vector:        vectors[0],
			TopK:          10,
			Filter:        map[string]any{"year": map[string]any{"$gte": 2019.0}},
			IncludeValues: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.NotEqual(t, "1", r.ID)
			assert.Len(t, r.Values, testDimension)
			assert.Nil(t, r.Metadata)
		}
	})

	t.Run("TopKBoundsResults", func(t *testing.T) {
		results, err := svc.Search(ctx, vectordb.SearchRequest{Vector: vectors[4], TopK: 2})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("UnknownNamespaceIsEmpty", func(t *testing.T) {
		results, err := svc.Search(ctx, vectordb.SearchRequest{Namespace: "nope", Vector: vectors[0], TopK: 3})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("DescribeNamespaces", func(t *testing.T) {
		stats, err := svc.DescribeNamespaces(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]vectordb.NamespaceStats{
			"docs": {VectorCount: 3},
			"faq":  {VectorCount: 2},
		}, stats)
	})

	t.Run("DimensionMismatchIsUpstreamError", func(t *testing.T) {
		_, err := svc.Search(ctx, vectordb.SearchRequest{Vector: []float32{1, 2}, TopK: 1})
		_, ok := vectordb.AsUpstreamError(err)
		assert.True(t, ok)
	})
}

func TestQdrantAdapterMissingCollection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	qc, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() { _ = qc.Terminate(ctx) }()

	cfg := DefaultConfig()
	cfg.Endpoint = qc.Host
	cfg.Port = qc.Port
	cfg.Collection = "does_not_exist"

	a := NewAdapter(ctx, cfg, logger.NewNop())
	defer a.Close()

	st := a.Status()
	assert.True(t, st.ClientReady)
	assert.False(t, st.IndexReady)

	_, err = a.Search(ctx, vectordb.SearchRequest{Vector: generateRandomVector(testDimension), TopK: 1})
	assert.True(t, vectordb.IsNotConnected(err))
}

func generateRandomVector(size int) []float32 {
	v := make([]float32, size)
	for i := range v {
		v[i] = rand.Float32()*2 - 1
	}
	return v
}
