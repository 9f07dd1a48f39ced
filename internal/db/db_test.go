// Package db provides integration tests for SurrealDB plan graph
// operations. Requires Docker.
package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func wipe(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.WipeData(context.Background()))
}

const (
	testPlanJSON      = `[{"name":"market_analyze_market","parameters":{"query":"scarves"}}]`
	otherTestPlanJSON = `[{"name":"design_create_poster","parameters":{"product_name":"vase"}}]`
)

func TestStoreSuccessCreatesCandidate(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	err := testDB.QueryStoreSuccess(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON)
	require.NoError(t, err)

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "analyze the scarf market", candidates[0].CommandText)
	assert.Equal(t, testPlanJSON, candidates[0].PlanJSON)
	assert.Equal(t, 1, candidates[0].Executions)
	assert.False(t, candidates[0].HasFailure)
}

func TestRepeatSuccessIncrementsCounter(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON))
	}

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "repeats must merge into one edge")
	assert.Equal(t, 3, candidates[0].Executions)
}

func TestFailureEdgeFlagsCandidate(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON))
	require.NoError(t, testDB.QueryStoreFailure(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON, "wrong market"))

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].HasFailure)
}

func TestSuccessRemovesFailureEdge(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, testDB.QueryStoreFailure(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON, "User was not satisfied."))

	edges, err := testDB.QueryFailureEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "User was not satisfied.", edges[0].LastFeedback)

	require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd1", "analyze the scarf market", "plan1", testPlanJSON))

	edges, err = testDB.QueryFailureEdges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges, "success must delete the pair's failure edge")

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].HasFailure)
}

func TestFailureScopedToPair(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd1", "grow my business", "plan1", testPlanJSON))
	require.NoError(t, testDB.QueryStoreFailure(ctx, "cmd1", "grow my business", "plan2", otherTestPlanJSON, "not that"))

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].HasFailure, "failure of a different plan must not taint the pair")
}

func TestRepeatFailureOverwritesFeedback(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, testDB.QueryStoreFailure(ctx, "cmd1", "make an invoice", "plan1", testPlanJSON, "first"))
	require.NoError(t, testDB.QueryStoreFailure(ctx, "cmd1", "make an invoice", "plan1", testPlanJSON, "second"))

	edges, err := testDB.QueryFailureEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, 2, edges[0].Failures)
	assert.Equal(t, "second", edges[0].LastFeedback)
}

func TestDistinctCommandsShareAPlanNode(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd1", "analyze scarves", "plan1", testPlanJSON))
	require.NoError(t, testDB.QueryStoreSuccess(ctx, "cmd2", "research scarves", "plan1", testPlanJSON))

	candidates, err := testDB.QuerySuccessfulCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, candidates, 2, "one edge per command, same plan node")
}
