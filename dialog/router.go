// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dialog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
)

const defaultTopK = 10

// Classification is the router's verdict on a question. A turn is either
// financial (needs retrieval) or general (answered without it); there is
// no third state.
type Classification int

const (
	// ClassificationFinancial routes the turn through retrieval.
	ClassificationFinancial Classification = iota + 1
	// ClassificationGeneral answers without touching the tenant's data.
	ClassificationGeneral
)

// String returns the wire name of the classification.
func (c Classification) String() string {
	switch c {
	case ClassificationFinancial:
		return "financial"
	case ClassificationGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Retriever answers tenant-scoped similarity queries. It is the read
// surface of the vector index: failures inside the retriever surface as
// empty results, never as errors.
type Retriever interface {
	Search(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry
}

// Router drives a dialogue turn: classify the question, retrieve grounding
// context for financial questions, and generate the reply.
type Router struct {
	retriever Retriever
	generator ai.Generator
	topK      int
	logger    *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithTopK sets how many entries retrieval requests per financial turn.
// Default is 10.
func WithTopK(topK int) Option {
	return func(r *Router) error {
		if topK < 1 {
			topK = 1
		}
		r.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a dialogue router over the given retriever and generator.
func NewRouter(retriever Retriever, generator ai.Generator, opts ...Option) (*Router, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Router{
		retriever: retriever,
		generator: generator,
		topK:      defaultTopK,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// HandleTurn answers a single dialogue turn for a tenant.
//
// Classification failures never fail the turn: a broken or off-contract
// classifier routes to the financial branch, which degrades to the
// no-records placeholder when the tenant has nothing indexed. Only a
// failure of the answering model call fails the turn, and then the caller
// sees ErrTurnFailed with the cause logged.
func (r *Router) HandleTurn(ctx context.Context, tenantID, message string) (string, error) {
	return r.HandleTurnWithMonitor(ctx, tenantID, message, noopMonitor{})
}

// HandleTurnWithMonitor is HandleTurn with stage observation.
func (r *Router) HandleTurnWithMonitor(ctx context.Context, tenantID, message string, monitor TurnMonitor) (reply string, err error) {
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(tenantID, message)
	defer func() { monitor.Finish(err) }()

	if err = core.ValidateTenantID(tenantID); err != nil {
		return "", err
	}
	if strings.TrimSpace(message) == "" {
		err = ErrEmptyMessage
		return "", err
	}

	classification := r.classify(ctx, message, monitor)

	switch classification {
	case ClassificationGeneral:
		reply, err = r.generalTurn(ctx, message)
	case ClassificationFinancial:
		reply, err = r.financialTurn(ctx, tenantID, message, monitor)
	}
	return reply, err
}

// classify routes the question. Fails open: a classifier error or any
// output other than GENERAL yields the financial branch, so a degraded
// classifier costs an unnecessary retrieval rather than an ungrounded
// answer.
func (r *Router) classify(ctx context.Context, message string, monitor TurnMonitor) Classification {
	raw, err := r.generator.Generate(ctx, classifierFrame, message)
	if err != nil {
		r.logger.Warn("classifier call failed, assuming financial", "err", err)
		monitor.Classified("", ClassificationFinancial)
		return ClassificationFinancial
	}

	classification := parseClassification(raw)
	monitor.Classified(raw, classification)
	return classification
}

// parseClassification maps raw classifier output onto a Classification.
// Only an exact GENERAL verdict (after trimming and case folding) routes
// away from retrieval.
func parseClassification(raw string) Classification {
	if strings.ToUpper(strings.TrimSpace(raw)) == "GENERAL" {
		return ClassificationGeneral
	}
	return ClassificationFinancial
}

func (r *Router) generalTurn(ctx context.Context, message string) (string, error) {
	reply, err := r.generator.Generate(ctx, generalFrame, message)
	if err != nil {
		r.logger.Error("general answer generation failed", "err", err)
		return "", ErrTurnFailed
	}
	return reply, nil
}

func (r *Router) financialTurn(ctx context.Context, tenantID, message string, monitor TurnMonitor) (string, error) {
	results := r.retriever.Search(ctx, tenantID, message, r.topK)
	monitor.Retrieved(len(results))

	grounding := buildGroundingContext(results)

	reply, err := r.generator.Generate(ctx, answerInstruction(grounding), message)
	if err != nil {
		r.logger.Error("grounded answer generation failed", "tenant", tenantID, "err", err)
		return "", ErrTurnFailed
	}
	return reply, nil
}

// buildGroundingContext joins retrieved chunk texts in rank order. An
// empty or whitespace-only result set becomes the no-records placeholder.
func buildGroundingContext(results []core.ScoredEntry) string {
	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.Entry.Chunk.Text)
	}

	joined := strings.Join(texts, "\n\n")
	if strings.TrimSpace(joined) == "" {
		return noRecordsContext
	}
	return joined
}
