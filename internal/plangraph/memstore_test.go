package plangraph

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftally/agent/internal/models"
)

func posterPlan() models.Plan {
	return models.Plan{
		{Name: "design_create_poster", Parameters: map[string]any{
			"product_name":   "Blue Pottery Vase",
			"description":    "Hand-painted Jaipur blue pottery",
			"call_to_action": "Shop Now",
			"save_path":      "output/poster.txt",
		}},
	}
}

func marketPlan() models.Plan {
	return models.Plan{
		{Name: "market_analyze_market", Parameters: map[string]any{"query": "handwoven scarves"}},
	}
}

func TestFindReturnsNilWhenEmpty(t *testing.T) {
	store := NewMemStore()
	plan, err := store.FindSuccessfulPlan(context.Background(), "make a poster")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestSuccessfulPlanIsRetrievableForSimilarCommand(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.StoreSuccessfulPlan(ctx, "create a poster for my blue pottery vase", posterPlan()))

	// A near-identical phrasing clears the similarity threshold.
	plan, err := store.FindSuccessfulPlan(ctx, "create a poster for my blue pottery vases")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "design_create_poster", plan[0].Name)
}

func TestDissimilarCommandFindsNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.StoreSuccessfulPlan(ctx, "create a poster for my blue pottery vase", posterPlan()))

	plan, err := store.FindSuccessfulPlan(ctx, "send a whatsapp message to Ravi")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestRepeatSuccessIncrementsExecutions(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "analyze the scarf market"

	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))
	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))
	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))

	assert.Equal(t, 3, store.Executions(command, marketPlan()))
}

func TestToolCallIDsDoNotSplitPlanIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "analyze the scarf market"

	withID := marketPlan()
	withID[0].ID = "call_abc123"
	withOtherID := marketPlan()
	withOtherID[0].ID = "call_xyz789"

	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, withID))
	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, withOtherID))

	// Same canonical plan, so one edge with two executions.
	assert.Equal(t, 2, store.Executions(command, marketPlan()))
}

func TestFailedPlanIsNotRetrieved(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "analyze the scarf market"

	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))
	require.NoError(t, store.StoreFailedPlan(ctx, command, marketPlan(), "wrong market"))

	plan, err := store.FindSuccessfulPlan(ctx, command)
	require.NoError(t, err)
	assert.Nil(t, plan, "a pair with a failure edge must not be reused")
}

func TestSuccessSupersedesFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "analyze the scarf market"

	require.NoError(t, store.StoreFailedPlan(ctx, command, marketPlan(), "User was not satisfied."))
	_, failed := store.LastFeedback(command, marketPlan())
	require.True(t, failed)

	plan, err := store.FindSuccessfulPlan(ctx, command)
	require.NoError(t, err)
	require.Nil(t, plan, "a failed-only pair is never returned")

	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))

	_, failed = store.LastFeedback(command, marketPlan())
	assert.False(t, failed, "success must remove the failure edge")

	plan, err = store.FindSuccessfulPlan(ctx, command)
	require.NoError(t, err)
	assert.NotNil(t, plan)
}

func TestFailureDoesNotRemoveSuccessOfOtherPlan(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "grow my business"

	require.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))
	require.NoError(t, store.StoreFailedPlan(ctx, command, posterPlan(), "not what I wanted"))

	// The failed pair is (command, posterPlan); the market plan's
	// success edge survives.
	plan, err := store.FindSuccessfulPlan(ctx, command)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "market_analyze_market", plan[0].Name)
}

func TestRepeatFailureOverwritesFeedback(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "make an invoice"

	require.NoError(t, store.StoreFailedPlan(ctx, command, posterPlan(), "first complaint"))
	require.NoError(t, store.StoreFailedPlan(ctx, command, posterPlan(), "second complaint"))

	feedback, ok := store.LastFeedback(command, posterPlan())
	require.True(t, ok)
	assert.Equal(t, "second complaint", feedback)
}

func TestFindHonorsSimilarityThresholdBoundary(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	// Ten-rune command. Four substitutions score exactly at the
	// threshold, five land just below it.
	require.NoError(t, store.StoreSuccessfulPlan(ctx, "abcdefghij", marketPlan()))

	plan, err := store.FindSuccessfulPlan(ctx, "abcdefwxyz")
	require.NoError(t, err)
	assert.NotNil(t, plan, "a candidate at the threshold qualifies")

	plan, err = store.FindSuccessfulPlan(ctx, "abcdevwxyz")
	require.NoError(t, err)
	assert.Nil(t, plan, "a candidate below the threshold is excluded")
}

func TestCrossPhrasingStillReusesThePlan(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	listingPlan := models.Plan{
		{Name: "market_analyze_market", Parameters: map[string]any{"query": "blue vase competitors"}},
		{Name: "market_suggest_price", Parameters: map[string]any{"product_name": "blue vase"}},
	}
	require.NoError(t, store.StoreSuccessfulPlan(ctx, "Find competitor prices for blue vase and list on Amazon", listingPlan))

	// A reworded request for the same task clears the threshold.
	plan, err := store.FindSuccessfulPlan(ctx, "Analyze competitors for blue vases and post to Amazon")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "market_analyze_market", plan[0].Name)
	assert.Equal(t, "market_suggest_price", plan[1].Name)
}

func TestFailureOnlyPairYieldsNoPlan(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.StoreFailedPlan(ctx, "Generate a website for me", posterPlan(), "too generic"))

	// Neither the exact command nor a close rewording may resurrect a
	// plan that only ever failed.
	plan, err := store.FindSuccessfulPlan(ctx, "Generate a website for me")
	require.NoError(t, err)
	assert.Nil(t, plan)

	plan, err = store.FindSuccessfulPlan(ctx, "Make a website for my art")
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestBestCandidateWinsBySimilarityThenExecutions(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	// Heavily executed but less similar.
	for range 5 {
		require.NoError(t, store.StoreSuccessfulPlan(ctx, "analyze the market for handwoven scarves", marketPlan()))
	}
	// Exact match modulo case, so it outscores the heavy hitter.
	require.NoError(t, store.StoreSuccessfulPlan(ctx, "Analyze the market for handwoven shawls", posterPlan()))

	plan, err := store.FindSuccessfulPlan(ctx, "analyze the market for handwoven shawls")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "design_create_poster", plan[0].Name)
}

func TestConcurrentSuccessesCountEveryIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	command := "analyze the scarf market"

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.StoreSuccessfulPlan(ctx, command, marketPlan()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Executions(command, marketPlan()))
}

func TestClearEmptiesTheGraph(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.StoreSuccessfulPlan(ctx, "a command", marketPlan()))
	require.NoError(t, store.Clear(ctx))

	plan, err := store.FindSuccessfulPlan(ctx, "a command")
	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, 0, store.Executions("a command", marketPlan()))
}
