package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

type fakeDispatcher struct {
	result *domain.DispatchResult
	err    error

	lastMethodID int
	lastQuestion string
}

func (f *fakeDispatcher) Dispatch(_ context.Context, methodID int, question string) (*domain.DispatchResult, error) {
	f.lastMethodID = methodID
	f.lastQuestion = question
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(dispatcher *fakeDispatcher) *httptest.Server {
	router := NewRouter(dispatcher, nil, Readiness{
		SimpleIndexSize: 10,
		ChildIndexSize:  20,
		ParentCount:     5,
		RouterMode:      "simplified",
	}, 0, 0)
	return httptest.NewServer(router.Handler())
}

func postQuery(t *testing.T, server *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/query", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post query: %v", err)
	}
	defer resp.Body.Close()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, payload
}

func TestQueryEndpointSuccessContract(t *testing.T) {
	dispatcher := &fakeDispatcher{result: &domain.DispatchResult{
		Method:     domain.MethodParentChild,
		MethodName: "Parent-Child Chunk Aware RAG",
		Answer:     "Magic links expire after 15 minutes [Guide - p.3].",
		Sources: []domain.SourceRecord{{
			Type:     domain.SourceParentChunk,
			Content:  "parent text",
			Metadata: domain.SourceMetadata{Title: "Guide", Page: "1-3", ParentID: "p1"},
		}},
		Metadata:        map[string]any{"strategy": "parent-child (child=400, parent=2000)"},
		ExecutionTimeMS: 12.5,
	}}
	server := newTestServer(dispatcher)
	defer server.Close()

	resp, payload := postQuery(t, server, `{"method_id": 2, "question": "how long do magic links last?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload["success"])
	}
	if payload["method_id"] != float64(2) {
		t.Fatalf("expected method_id=2, got %v", payload["method_id"])
	}
	if payload["method_name"] != "Parent-Child Chunk Aware RAG" {
		t.Fatalf("wrong method_name: %v", payload["method_name"])
	}
	if payload["source_count"] != float64(1) {
		t.Fatalf("expected source_count=1, got %v", payload["source_count"])
	}
	if payload["execution_time_ms"] != 12.5 {
		t.Fatalf("expected execution_time_ms=12.5, got %v", payload["execution_time_ms"])
	}
	sources, ok := payload["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("expected one source, got %v", payload["sources"])
	}
	src := sources[0].(map[string]any)
	if src["type"] != "parent_chunk" {
		t.Fatalf("wrong source type: %v", src["type"])
	}
	meta := src["metadata"].(map[string]any)
	if meta["parent_id"] != "p1" {
		t.Fatalf("expected parent_id in metadata, got %v", meta)
	}
	if dispatcher.lastMethodID != 2 || dispatcher.lastQuestion != "how long do magic links last?" {
		t.Fatalf("dispatcher received %d %q", dispatcher.lastMethodID, dispatcher.lastQuestion)
	}
}

func TestQueryEndpointUnknownMethod(t *testing.T) {
	dispatcher := &fakeDispatcher{err: domain.WrapError(domain.ErrUnknownMethod, "dispatch", domain.ErrInvalidInput)}
	server := newTestServer(dispatcher)
	defer server.Close()

	resp, payload := postQuery(t, server, `{"method_id": 9, "question": "anything"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload["success"])
	}
	errBody, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", payload["error"])
	}
	if errBody["kind"] != "UnknownMethod" {
		t.Fatalf("expected kind UnknownMethod, got %v", errBody["kind"])
	}
}

func TestQueryEndpointEmptyQuestion(t *testing.T) {
	dispatcher := &fakeDispatcher{err: domain.WrapError(domain.ErrEmptyQuestion, "dispatch", domain.ErrInvalidInput)}
	server := newTestServer(dispatcher)
	defer server.Close()

	resp, payload := postQuery(t, server, `{"method_id": 1, "question": "   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	errBody := payload["error"].(map[string]any)
	if errBody["kind"] != "EmptyQuestion" {
		t.Fatalf("expected kind EmptyQuestion, got %v", errBody["kind"])
	}
}

func TestQueryEndpointGenerationFailureIs502(t *testing.T) {
	dispatcher := &fakeDispatcher{err: domain.WrapError(domain.ErrGenerationFailure, "dense query", domain.ErrInvalidInput)}
	server := newTestServer(dispatcher)
	defer server.Close()

	resp, _ := postQuery(t, server, `{"method_id": 1, "question": "q"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestQueryEndpointMalformedBody(t *testing.T) {
	server := newTestServer(&fakeDispatcher{})
	defer server.Close()

	resp, payload := postQuery(t, server, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false for malformed body")
	}
}

func TestQueryEndpointRejectsGet(t *testing.T) {
	server := newTestServer(&fakeDispatcher{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/query")
	if err != nil {
		t.Fatalf("get query: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&fakeDispatcher{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", payload["status"])
	}
	readiness := payload["readiness"].(map[string]any)
	if readiness["parent_count"] != float64(5) {
		t.Fatalf("expected parent_count=5, got %v", readiness["parent_count"])
	}
}

func TestMethodsEndpointListsAllThree(t *testing.T) {
	server := newTestServer(&fakeDispatcher{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/methods")
	if err != nil {
		t.Fatalf("get methods: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		Methods []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"methods"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode methods: %v", err)
	}
	if len(payload.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(payload.Methods))
	}
	if payload.Methods[0].ID != 1 || payload.Methods[0].Name != "Simple Vector RAG" {
		t.Fatalf("wrong first method: %+v", payload.Methods[0])
	}
	if payload.Methods[2].Name != "Agentic RAG" {
		t.Fatalf("wrong third method: %+v", payload.Methods[2])
	}
}

func TestRequestIDPropagated(t *testing.T) {
	server := newTestServer(&fakeDispatcher{})
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	resp2, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestRateLimitReturns429(t *testing.T) {
	router := NewRouter(&fakeDispatcher{}, nil, Readiness{}, 1, 1)
	server := httptest.NewServer(router.Handler())
	defer server.Close()

	sawLimited := false
	for i := 0; i < 5; i++ {
		resp, err := http.Get(server.URL + "/api/health")
		if err != nil {
			t.Fatalf("get health: %v", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if resp.Header.Get("Retry-After") == "" {
				t.Fatalf("429 must carry Retry-After")
			}
			sawLimited = true
		}
		resp.Body.Close()
	}
	if !sawLimited {
		t.Fatalf("expected at least one rate-limited response")
	}
}
