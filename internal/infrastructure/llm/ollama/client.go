package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	guard      *resilience.Guard
}

func New(baseURL, genModel, embedModel string, guard *resilience.Guard) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		guard:      guard,
	}
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	request := map[string]any{
		"model": e.client.embedModel,
		"input": []string{text},
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.guard.Execute(ctx, "embed", func(ctx context.Context) error {
		return e.client.postJSON(ctx, "/api/embed", request, &response, "embed")
	}, recordOllamaFailure)
	if err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embeddings[0], nil
}

// Generator is the opaque text-generation capability of the engine.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  g.client.genModel,
		"system": system,
		"prompt": prompt,
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	err := g.client.guard.Execute(ctx, "generate", func(ctx context.Context) error {
		return g.client.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}, recordOllamaFailure)
	if err != nil {
		return "", domain.WrapError(domain.ErrGenerationFailure, "ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}
