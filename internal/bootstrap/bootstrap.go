package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpadapter "github.com/kirillkom/rag-answer-engine/internal/adapters/http"
	"github.com/kirillkom/rag-answer-engine/internal/config"
	"github.com/kirillkom/rag-answer-engine/internal/core/usecase"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/chunkstore/jsonfile"
	neo4jgraph "github.com/kirillkom/rag-answer-engine/internal/infrastructure/graph/neo4j"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/resilience"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/vector/flatindex"
	"github.com/kirillkom/rag-answer-engine/internal/observability/metrics"
)

// App holds the fully wired service. Retrieval stores are loaded eagerly;
// a missing or corrupt artifact fails startup instead of surfacing later
// as per-request errors.
type App struct {
	Config  config.Config
	Handler http.Handler

	graph *neo4jgraph.Client
}

func New(cfg config.Config) (*App, error) {
	manifest, err := config.LoadStoreManifest(cfg.StoreManifestPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	simpleIndex, err := flatindex.Load(manifest.SimpleIndex)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: simple index: %w", err)
	}
	childIndex, err := flatindex.Load(manifest.ChildIndex)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: child index: %w", err)
	}
	parentStore, err := jsonfile.Load(manifest.ParentStore, manifest.ChildToParent)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parent store: %w", err)
	}
	slog.Info("retrieval_stores_loaded",
		"simple_index_size", simpleIndex.Size(),
		"child_index_size", childIndex.Size(),
		"parent_count", parentStore.ParentCount(),
	)

	guard := resilience.NewGuard(resilience.Config{
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.BreakerOpenTimeout) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenMaxCalls),
	})

	graphClient := neo4jgraph.New(neo4jgraph.Config{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUsername,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
		Timeout:  time.Duration(cfg.GraphQueryTimeoutSeconds) * time.Second,
	}, guard)

	llmClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, guard)
	embedder := ollama.NewEmbedder(llmClient)
	generator := ollama.NewGenerator(llmClient)

	retrievalOpts := usecase.DenseOptions{
		TopK:      cfg.RAGTopK,
		MMRFetchK: cfg.MMRFetchK,
		MMRLambda: cfg.MMRLambda,
	}
	dense := usecase.NewDenseQueryUseCase(embedder, simpleIndex, generator, retrievalOpts)
	parentChild := usecase.NewParentChildUseCase(embedder, childIndex, parentStore, generator, retrievalOpts)
	router := usecase.NewToolRouterUseCase(parentChild, graphClient, usecase.NewEntropyAnalyzer(), generator, usecase.RouterOptions{
		Mode:                 usecase.RouterMode(cfg.RouterMode),
		GraphMaxEdges:        cfg.GraphMaxEdges,
		GraphPerKeywordLimit: cfg.GraphKeywordLimit,
	})
	dispatcher := usecase.NewDispatcherUseCase(dense, parentChild, router)

	serverMetrics := metrics.NewServerMetrics("rag-answer-engine")
	httpRouter := httpadapter.NewRouter(dispatcher, serverMetrics, httpadapter.Readiness{
		SimpleIndexSize: simpleIndex.Size(),
		ChildIndexSize:  childIndex.Size(),
		ParentCount:     parentStore.ParentCount(),
		RouterMode:      cfg.RouterMode,
	}, cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)

	return &App{
		Config:  cfg,
		Handler: httpRouter.Handler(),
		graph:   graphClient,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	if a.graph == nil {
		return nil
	}
	return a.graph.Close(ctx)
}
