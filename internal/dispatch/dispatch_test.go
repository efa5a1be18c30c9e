package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/types"
)

// stubClient answers gateway calls from a function, tracking how many
// calls are in flight at once.
type stubClient struct {
	answer func(req llm.Request) (string, error)
	delay  time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	requests []llm.Request
}

func (s *stubClient) Analyze(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			s.mu.Lock()
			s.inFlight--
			s.mu.Unlock()
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return s.answer(req)
}

func (s *stubClient) GetModel(tier llm.ModelTier) string { return "stub-model" }

func (s *stubClient) Close() error { return nil }

func makeChunks(n int) []types.Chunk {
	chunks := make([]types.Chunk, n)
	pos := 0
	for i := range chunks {
		content := fmt.Sprintf("第%d块的内容。", i)
		chunks[i] = types.Chunk{
			ID:      i,
			Content: content,
			Start:   pos,
			End:     pos + len([]rune(content)),
		}
		pos = chunks[i].End
	}
	return chunks
}

func structuredReplyFor(req llm.Request) (string, error) {
	return `{"overall_score": 80, "issues": [{"type": "language", "severity": "low", "description": "表述冗余", "confidence": 0.8}], "summary": "内容审核完成"}`, nil
}

func TestRun_OnePerChunkInOrder(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor}
	chunks := makeChunks(5)

	outcomes, err := Run(context.Background(), client, chunks, Options{Scenario: "general"})
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	for i, outcome := range outcomes {
		assert.Equal(t, i, outcome.ChunkID, "outcome %d must belong to chunk %d", i, i)
		assert.False(t, outcome.Failed())
		assert.Equal(t, 80.0, outcome.Score)
		assert.Equal(t, types.OriginStructured, outcome.Origin)
		require.Len(t, outcome.Findings, 1)
		assert.Equal(t, i, outcome.Findings[0].ChunkID, "finding tagged with owning chunk")
		assert.Equal(t, fmt.Sprintf("chunk %d", i), outcome.Findings[0].Location)
	}
}

func TestRun_EmptyChunks(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor}
	outcomes, err := Run(context.Background(), client, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Empty(t, client.requests)
}

func TestRun_FailureIsolation(t *testing.T) {
	client := &stubClient{answer: func(req llm.Request) (string, error) {
		if strings.Contains(req.Content, "第2块") {
			return "", &llm.GatewayError{Message: "deadline exceeded"}
		}
		return structuredReplyFor(req)
	}}
	chunks := makeChunks(4)

	outcomes, err := Run(context.Background(), client, chunks, Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.True(t, outcomes[2].Failed())
	assert.Contains(t, outcomes[2].Error, "deadline exceeded")
	assert.Equal(t, 0.0, outcomes[2].Score)
	for _, i := range []int{0, 1, 3} {
		assert.False(t, outcomes[i].Failed(), "chunk %d unaffected by sibling failure", i)
		assert.Equal(t, 80.0, outcomes[i].Score)
	}
}

func TestRun_ConcurrencyCapRespected(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor, delay: 20 * time.Millisecond}
	chunks := makeChunks(8)

	_, err := Run(context.Background(), client, chunks, Options{Concurrency: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, client.peak, 3)
	assert.Len(t, client.requests, 8)
}

func TestRun_SequentialWhenLimitOne(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor, delay: 5 * time.Millisecond}
	chunks := makeChunks(4)

	outcomes, err := Run(context.Background(), client, chunks, Options{Concurrency: 1})
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	assert.Equal(t, 1, client.peak, "limit 1 must never overlap calls")

	// Sequential execution preserves submission order exactly.
	for i, req := range client.requests {
		assert.Contains(t, req.Content, fmt.Sprintf("第%d块", i))
	}
}

func TestRun_CancellationSurfacesError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{
		answer: structuredReplyFor,
		delay:  200 * time.Millisecond,
	}
	chunks := makeChunks(6)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	outcomes, err := Run(ctx, client, chunks, Options{Concurrency: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestRun_ContextCarriesScenarioAndChapter(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor}
	chunks := []types.Chunk{{
		ID:      0,
		Content: "合同条款内容。",
		Chapter: "第一章 总则",
		Metadata: map[string]string{
			"previous_summary": "前文介绍了合同双方",
		},
	}}

	_, err := Run(context.Background(), client, chunks, Options{
		Scenario: "contract",
		Context:  "公司采购合同",
	})
	require.NoError(t, err)
	require.Len(t, client.requests, 1)

	reqCtx := client.requests[0].Context
	assert.Contains(t, reqCtx, "Review scenario: contract")
	assert.Contains(t, reqCtx, "Chapter: 第一章 总则")
	assert.Contains(t, reqCtx, "Chunk number: 0")
	assert.Contains(t, reqCtx, "公司采购合同")
	assert.Contains(t, reqCtx, "前文介绍了合同双方")
}

func TestRun_DefaultInstructionsWhenUnset(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor}
	chunks := makeChunks(1)

	_, err := Run(context.Background(), client, chunks, Options{})
	require.NoError(t, err)
	require.Len(t, client.requests, 1)
	assert.Contains(t, client.requests[0].Instructions, "overall_score")
}

func TestRun_ExplicitInstructionsPassedThrough(t *testing.T) {
	client := &stubClient{answer: structuredReplyFor}
	chunks := makeChunks(1)

	_, err := Run(context.Background(), client, chunks, Options{
		Instructions: "审核合同条款的合规性",
	})
	require.NoError(t, err)
	require.Len(t, client.requests, 1)
	assert.Equal(t, "审核合同条款的合规性", client.requests[0].Instructions)
}

func TestRun_ExistingLocationPreserved(t *testing.T) {
	client := &stubClient{answer: func(req llm.Request) (string, error) {
		return `{"overall_score": 70, "issues": [{"description": "术语混用", "location": "第三段"}]}`, nil
	}}
	chunks := makeChunks(1)

	outcomes, err := Run(context.Background(), client, chunks, Options{})
	require.NoError(t, err)
	require.Len(t, outcomes[0].Findings, 1)
	assert.Equal(t, "第三段", outcomes[0].Findings[0].Location)
}
