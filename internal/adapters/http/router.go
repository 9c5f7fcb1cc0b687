package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/core/ports"
	"github.com/kirillkom/rag-answer-engine/internal/observability/metrics"
)

const serviceName = "rag-answer-engine"

// Readiness is the startup snapshot reported by the health endpoint.
type Readiness struct {
	SimpleIndexSize int    `json:"simple_index_size"`
	ChildIndexSize  int    `json:"child_index_size"`
	ParentCount     int    `json:"parent_count"`
	RouterMode      string `json:"router_mode"`
}

type Router struct {
	dispatcher ports.MethodDispatcher
	metrics    *metrics.ServerMetrics
	readiness  Readiness

	rateLimitRPS   int
	rateLimitBurst int
}

func NewRouter(dispatcher ports.MethodDispatcher, serverMetrics *metrics.ServerMetrics, readiness Readiness, rateLimitRPS, rateLimitBurst int) *Router {
	return &Router{
		dispatcher:     dispatcher,
		metrics:        serverMetrics,
		readiness:      readiness,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", rt.health)
	mux.HandleFunc("/api/methods", rt.listMethods)
	mux.HandleFunc("/api/query", rt.handleQuery)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = metricsMiddleware(handler, rt.metrics)
	handler = accessLogMiddleware(handler)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"readiness": rt.readiness,
	})
}

func (rt *Router) listMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	type methodInfo struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	out := make([]methodInfo, 0, 3)
	for _, m := range []domain.Method{domain.MethodSimpleVector, domain.MethodParentChild, domain.MethodToolRouter} {
		out = append(out, methodInfo{ID: int(m), Name: m.Name()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"methods": out})
}

type queryRequest struct {
	MethodID int    `json:"method_id"`
	Question string `json:"question"`
}

type querySuccessResponse struct {
	Success         bool                  `json:"success"`
	MethodID        int                   `json:"method_id"`
	MethodName      string                `json:"method_name"`
	Answer          string                `json:"answer"`
	Sources         []domain.SourceRecord `json:"sources"`
	SourceCount     int                   `json:"source_count"`
	ExecutionTimeMS float64               `json:"execution_time_ms"`
	Metadata        map[string]any        `json:"metadata"`
}

type queryErrorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (rt *Router) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, queryErrorResponse{
			Error: errorBody{Kind: "InvalidInput", Message: "request body must be JSON"},
		})
		return
	}

	start := time.Now()
	result, err := rt.dispatcher.Dispatch(r.Context(), req.MethodID, strings.TrimSpace(req.Question))
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.ObserveQuery(serviceName, req.MethodID, false, 0, time.Since(start))
		}
		writeJSON(w, mapErrorToHTTPStatus(err), queryErrorResponse{
			Error: errorBody{Kind: domain.ErrorKind(err), Message: err.Error()},
		})
		return
	}

	if rt.metrics != nil {
		rt.metrics.ObserveQuery(serviceName, int(result.Method), true, len(result.Sources), time.Since(start))
		recordRouterToolMetrics(rt.metrics, result.Metadata)
	}

	sources := result.Sources
	if sources == nil {
		sources = []domain.SourceRecord{}
	}
	writeJSON(w, http.StatusOK, querySuccessResponse{
		Success:         true,
		MethodID:        int(result.Method),
		MethodName:      result.MethodName,
		Answer:          result.Answer,
		Sources:         sources,
		SourceCount:     len(sources),
		ExecutionTimeMS: result.ExecutionTimeMS,
		Metadata:        result.Metadata,
	})
}

// recordRouterToolMetrics derives per-tool counters from the routing
// metadata the full router mode emits. Methods 1 and 2 carry none of
// these keys and record nothing here.
func recordRouterToolMetrics(m *metrics.ServerMetrics, metadata map[string]any) {
	selected, _ := metadata["selected_tools"].([]string)
	failures, _ := metadata["tool_failures"].(map[string]string)
	for _, tool := range selected {
		_, failed := failures[tool]
		m.ObserveToolInvocation(serviceName, tool, !failed)
	}
	if _, degraded := failures["graph_search"]; degraded {
		m.ObserveGraphDegraded(serviceName)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
