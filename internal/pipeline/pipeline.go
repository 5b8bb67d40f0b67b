package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sqlsage/sqlsage/internal/errors"
	"github.com/sqlsage/sqlsage/internal/llm"
	"github.com/sqlsage/sqlsage/internal/logging"
	"github.com/sqlsage/sqlsage/internal/observability"
	"github.com/sqlsage/sqlsage/internal/types"
)

// Completion parameters for the two model calls. Query generation runs cold
// and stops at the first blank line so the model cannot append prose after
// the statement; insight generation gets more room and a little warmth
const (
	queryMaxTokens     = 500
	queryTemperature   = 0.1
	insightMaxTokens   = 800
	insightTemperature = 0.3
)

const (
	// failedAnalysisMessage is returned verbatim when the generated query
	// failed against the store. No model call is made for this case
	failedAnalysisMessage = "I encountered an error while analyzing the data. Please try rephrasing your question."

	// degradedInsightFormat is the fallback narrative when the insight call
	// itself fails after a successful query
	degradedInsightFormat = "Analysis completed, but I couldn't generate detailed insights. Raw results: %d records found."
)

// Store is the subset of the storage layer the pipeline depends on
type Store interface {
	Introspect(ctx context.Context, sampleRows int) (types.SchemaDescription, error)
	Execute(ctx context.Context, query string) types.QueryResult
}

// Pipeline answers natural language questions against a relational store.
// The schema description is introspected once at construction, shared
// read-only by every request, and replaced wholesale by Refresh
type Pipeline struct {
	store      Store
	service    llm.Service
	sampleRows int

	mu     sync.RWMutex
	schema types.SchemaDescription
}

// New builds a pipeline and introspects the store's schema. Introspection
// failure is not fatal: the pipeline starts with an empty schema and the
// model simply gets no table context
func New(ctx context.Context, store Store, service llm.Service, sampleRows int) *Pipeline {
	p := &Pipeline{
		store:      store,
		service:    service,
		sampleRows: sampleRows,
	}

	schema, err := store.Introspect(ctx, sampleRows)
	if err != nil {
		logging.WithError(err).Warn("Schema introspection failed, continuing with empty schema")

		schema = types.SchemaDescription{}
	}

	p.schema = schema

	return p
}

// Schema returns the currently cached schema description
func (p *Pipeline) Schema() types.SchemaDescription {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.schema
}

// Refresh re-runs introspection and swaps in the fresh schema. Unlike
// construction it reports failure to the caller and keeps the previous
// schema, since an explicit refresh deserves an explicit answer
func (p *Pipeline) Refresh(ctx context.Context) error {
	schema, err := p.store.Introspect(ctx, p.sampleRows)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeIntrospection, "schema refresh failed")
	}

	p.mu.Lock()
	p.schema = schema
	p.mu.Unlock()

	observability.IncrementSchemaRefresh()

	return nil
}

// Ask runs one question through generation, execution, and insight
// composition. A validation or generation failure returns an error and no
// Answer; every other failure degrades into the Answer itself, so a caller
// that gets an Answer always gets a complete one
func (p *Pipeline) Ask(ctx context.Context, question string) (types.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return types.Answer{}, errors.New(errors.ErrTypeValidation, "question is required")
	}

	start := time.Now()
	defer func() { observability.ObserveQuestion(time.Since(start)) }()

	prompt := RenderQueryPrompt(p.Schema(), question)

	query, err := p.generateQuery(ctx, prompt)
	if err != nil {
		observability.IncrementGenerationFailure()
		return types.Answer{}, err
	}

	result := p.store.Execute(ctx, query)
	if !result.Success {
		observability.IncrementExecutionFailure()
		logging.WithField("error", result.Error).Warn("Generated query failed against the store")
	}

	insights := p.composeInsights(ctx, question, result)

	return types.Answer{
		Question:  question,
		SQLQuery:  query,
		Results:   result,
		Insights:  insights,
		Timestamp: time.Now().UTC(),
	}, nil
}

// generateQuery sends the composed prompt to the completion service and
// normalizes the response into a single guarded statement
func (p *Pipeline) generateQuery(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	completion, err := p.service.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   queryMaxTokens,
		Temperature: queryTemperature,
		Stop:        []string{"\n\n"},
	})

	observability.ObserveCompletion("query", time.Since(start))

	if err != nil {
		logging.WithError(err).Error("SQL generation failed")
		return "", errors.NewGenerationError("failed to generate SQL query", err)
	}

	query := ExtractSQL(completion)
	if query == "" {
		return "", errors.NewGenerationError("model returned an empty query", nil)
	}

	if err := EnsureReadOnly(query); err != nil {
		logging.WithField("query", query).Warn("Generated statement rejected by read-only guard")
		return "", err
	}

	return query, nil
}

// composeInsights turns the execution result into the narrative answer. A
// failed result short-circuits to the fixed apology without a model call; a
// failed model call degrades to a canned row-count message
func (p *Pipeline) composeInsights(ctx context.Context, question string, result types.QueryResult) string {
	if !result.Success {
		return failedAnalysisMessage
	}

	prompt := RenderInsightPrompt(question, SummarizeResult(result))

	start := time.Now()

	completion, err := p.service.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   insightMaxTokens,
		Temperature: insightTemperature,
	})

	observability.ObserveCompletion("insight", time.Since(start))

	if err != nil {
		logging.WithError(err).Warn("Insight generation failed, returning canned summary")
		observability.IncrementInsightDegraded()

		return fmt.Sprintf(degradedInsightFormat, result.RowCount)
	}

	return strings.TrimSpace(completion)
}
