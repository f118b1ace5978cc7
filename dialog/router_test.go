package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/finsight/ai/mock"
	"github.com/poiesic/finsight/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever is a func-field test double for Retriever.
type stubRetriever struct {
	SearchFunc func(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry

	calls int
}

func (s *stubRetriever) Search(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry {
	s.calls++
	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, tenantID, query, topK)
	}
	return nil
}

func scoredEntry(text string, score float32) core.ScoredEntry {
	return core.ScoredEntry{
		Entry: &core.IndexedEntry{
			TenantID: "user-1",
			Chunk: core.Chunk{
				Text: text,
				Meta: core.MonthlySummaryMeta{Month: "2025-07", Year: "2025"},
			},
		},
		Score: score,
	}
}

// classifyThenReply makes the mock answer the classifier call with verdict
// and every later call with reply.
func classifyThenReply(gen *mock.MockGenerator, verdict, reply string) {
	gen.GenerateFunc = func(ctx context.Context, instruction, message string) (string, error) {
		if instruction == classifierFrame {
			return verdict, nil
		}
		return reply, nil
	}
}

func TestNewRouterValidation(t *testing.T) {
	gen := mock.NewMockGenerator()

	_, err := NewRouter(nil, gen)
	assert.ErrorIs(t, err, ErrRetrieverRequired)

	_, err = NewRouter(&stubRetriever{}, nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		raw  string
		want Classification
	}{
		{"GENERAL", ClassificationGeneral},
		{"general", ClassificationGeneral},
		{"  General \n", ClassificationGeneral},
		{"FINANCIAL", ClassificationFinancial},
		{"financial", ClassificationFinancial},
		{"", ClassificationFinancial},
		{"GENERAL.", ClassificationFinancial},
		{"mostly GENERAL", ClassificationFinancial},
		{"I think this is GENERAL", ClassificationFinancial},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClassification(tt.raw))
		})
	}
}

func TestGeneralTurnSkipsRetrieval(t *testing.T) {
	retriever := &stubRetriever{}
	gen := mock.NewMockGenerator()
	classifyThenReply(gen, "GENERAL", "Hello there!")

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	reply, err := router.HandleTurn(context.Background(), "user-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)
	assert.Zero(t, retriever.calls)

	// Classifier call plus answer call
	require.Equal(t, 2, gen.CallCount())
	assert.Equal(t, generalFrame, gen.Calls()[1].Instruction)
	assert.Equal(t, "hi", gen.Calls()[1].Message)
}

func TestFinancialTurnGroundsOnRetrieval(t *testing.T) {
	retriever := &stubRetriever{
		SearchFunc: func(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry {
			assert.Equal(t, "user-1", tenantID)
			assert.Equal(t, 10, topK)
			return []core.ScoredEntry{
				scoredEntry("first ranked chunk", 0.9),
				scoredEntry("second ranked chunk", 0.5),
			}
		},
	}
	gen := mock.NewMockGenerator()
	classifyThenReply(gen, "FINANCIAL", "You spent 200.")

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	reply, err := router.HandleTurn(context.Background(), "user-1", "how much did I spend?")
	require.NoError(t, err)
	assert.Equal(t, "You spent 200.", reply)
	assert.Equal(t, 1, retriever.calls)

	instruction := gen.Calls()[1].Instruction
	assert.Contains(t, instruction, "first ranked chunk\n\nsecond ranked chunk")
	assert.NotContains(t, instruction, noRecordsContext)
}

func TestFinancialTurnEmptyRetrievalUsesPlaceholder(t *testing.T) {
	retriever := &stubRetriever{}
	gen := mock.NewMockGenerator()
	classifyThenReply(gen, "FINANCIAL", "Your finances look healthy.")

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	_, err = router.HandleTurn(context.Background(), "user-1", "what did I spend?")
	require.NoError(t, err)

	assert.Contains(t, gen.Calls()[1].Instruction, noRecordsContext)
}

func TestClassifierFailureFailsOpen(t *testing.T) {
	retriever := &stubRetriever{}
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, instruction, message string) (string, error) {
		if instruction == classifierFrame {
			return "", errors.New("classifier down")
		}
		return "Grounded answer", nil
	}

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	reply, err := router.HandleTurn(context.Background(), "user-1", "anything")
	require.NoError(t, err)
	assert.Equal(t, "Grounded answer", reply)
	// Fail-open routed through retrieval
	assert.Equal(t, 1, retriever.calls)
}

func TestAnswerFailureReturnsTurnFailed(t *testing.T) {
	retriever := &stubRetriever{}
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, instruction, message string) (string, error) {
		if instruction == classifierFrame {
			return "FINANCIAL", nil
		}
		return "", errors.New("model exploded")
	}

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	_, err = router.HandleTurn(context.Background(), "user-1", "what did I spend?")
	require.ErrorIs(t, err, ErrTurnFailed)
	// Cause is logged, not wrapped
	assert.NotContains(t, err.Error(), "model exploded")
}

func TestHandleTurnInputValidation(t *testing.T) {
	router, err := NewRouter(&stubRetriever{}, mock.NewMockGenerator())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = router.HandleTurn(ctx, "", "hello")
	assert.ErrorIs(t, err, core.ErrInvalidTenantID)

	_, err = router.HandleTurn(ctx, "user-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestTopKOption(t *testing.T) {
	var seenTopK int
	retriever := &stubRetriever{
		SearchFunc: func(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry {
			seenTopK = topK
			return nil
		},
	}
	gen := mock.NewMockGenerator()
	classifyThenReply(gen, "FINANCIAL", "ok")

	router, err := NewRouter(retriever, gen, WithTopK(3))
	require.NoError(t, err)

	_, err = router.HandleTurn(context.Background(), "user-1", "spending?")
	require.NoError(t, err)
	assert.Equal(t, 3, seenTopK)
}

type recordingMonitor struct {
	started        bool
	raw            string
	classification Classification
	retrieved      int
	finished       bool
	err            error
}

func (m *recordingMonitor) Start(string, string) { m.started = true }
func (m *recordingMonitor) Classified(raw string, c Classification) {
	m.raw = raw
	m.classification = c
}
func (m *recordingMonitor) Retrieved(n int)  { m.retrieved = n }
func (m *recordingMonitor) Finish(err error) { m.finished = true; m.err = err }

func TestMonitorObservesStages(t *testing.T) {
	retriever := &stubRetriever{
		SearchFunc: func(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry {
			return []core.ScoredEntry{scoredEntry("chunk", 1)}
		},
	}
	gen := mock.NewMockGenerator()
	classifyThenReply(gen, "FINANCIAL", "answer")

	router, err := NewRouter(retriever, gen)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = router.HandleTurnWithMonitor(context.Background(), "user-1", "spending?", monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, "FINANCIAL", strings.TrimSpace(monitor.raw))
	assert.Equal(t, ClassificationFinancial, monitor.classification)
	assert.Equal(t, 1, monitor.retrieved)
	assert.True(t, monitor.finished)
	assert.NoError(t, monitor.err)
}
