package diagrams

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ziadkadry99/autodiagram/internal/llm/llmtest"
)

func TestEstimateRunMatchesRequestCount(t *testing.T) {
	snap := djangoSnapshot(t)
	opts := RunOptions{Technical: true}

	est := EstimateRun(snap, opts)

	p := llmtest.New(classReply)
	_, err := Run(context.Background(), NewGenerator(p), snap, opts)
	assert.NoError(t, err)
	assert.Equal(t, p.CallCount(), est.Requests)
	assert.Equal(t, est.Requests*EstimatedReplyTokens, est.OutputTokens)
	assert.Positive(t, est.InputTokens)
	assert.Contains(t, est.Breakdown, "technical architecture")
}

func TestEstimateRunSkipsFileDiagrams(t *testing.T) {
	est := EstimateRun(djangoSnapshot(t), RunOptions{SkipFileDiagrams: true})
	// structure, overview, documentation
	assert.Equal(t, 3, est.Requests)
	assert.NotContains(t, est.Breakdown, "class diagram")
}

func TestEstimateCost(t *testing.T) {
	est := Estimate{InputTokens: 1_000_000}
	assert.InDelta(t, 2.50, est.Cost("gpt-4o"), 1e-9)
	assert.Zero(t, est.Cost("unknown-model"))
}
