package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sqlsage/sqlsage/internal/errors"
	"github.com/sqlsage/sqlsage/internal/types"
)

// Pipeline is the part of the question pipeline the HTTP surface consumes
type Pipeline interface {
	Ask(ctx context.Context, question string) (types.Answer, error)
	Schema() types.SchemaDescription
}

// Dependencies carries everything the handler needs to serve requests
type Dependencies struct {
	Pipeline Pipeline
}

// NewHandler builds the full HTTP handler: routes plus the request ID,
// metrics, and logging middleware chain
func NewHandler(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ask", func(w http.ResponseWriter, r *http.Request) {
		handleAsk(deps, w, r)
	})
	mux.HandleFunc("GET /schema", func(w http.ResponseWriter, r *http.Request) {
		handleSchema(deps, w, r)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return chain(mux,
		RequestIDMiddleware,
		MetricsMiddleware,
		LoggingMiddleware,
	)
}

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk validates the question and runs it through the pipeline. A
// missing question is rejected here, before the pipeline is ever invoked
func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := deps.Pipeline.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.IsType(err, errors.ErrTypeValidation):
			writeError(w, http.StatusBadRequest, "Question is required")
		case errors.IsType(err, errors.ErrTypeGeneration):
			writeError(w, http.StatusInternalServerError,
				"Failed to generate SQL query. Please try rephrasing your question.")
		default:
			writeError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		}

		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// handleSchema returns the cached schema description keyed by table name
func handleSchema(deps Dependencies, w http.ResponseWriter, _ *http.Request) {
	schema := deps.Pipeline.Schema()

	payload := make(map[string]any, len(schema.Tables))

	for _, table := range schema.Tables {
		samples := table.SampleRows
		if samples == nil {
			samples = []map[string]any{}
		}

		payload[table.Name] = map[string]any{
			"columns":     table.Columns,
			"sample_rows": samples,
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
