package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	StoreManifestPath string

	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	OllamaURL        string
	OllamaGenModel   string
	OllamaEmbedModel string

	RAGTopK   int
	MMRFetchK int
	MMRLambda float64

	RouterMode               string
	GraphMaxEdges            int
	GraphKeywordLimit        int
	GraphQueryTimeoutSeconds int

	APIRateLimitRPS   int
	APIRateLimitBurst int

	BreakerEnabled          bool
	BreakerMinRequests      int
	BreakerFailureRatio     float64
	BreakerOpenTimeout      int
	BreakerHalfOpenMaxCalls int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		StoreManifestPath: mustEnv("STORE_MANIFEST_PATH", "./data/stores.yaml"),

		Neo4jURI:      mustEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUsername: mustEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: mustEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase: mustEnv("NEO4J_DATABASE", "neo4j"),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel:   mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		RAGTopK:   mustEnvInt("RAG_TOP_K", 6),
		MMRFetchK: mustEnvInt("RAG_MMR_FETCH_K", 20),
		MMRLambda: mustEnvFloat("RAG_MMR_LAMBDA", 0.5),

		RouterMode:               mustEnv("ROUTER_MODE", "simplified"),
		GraphMaxEdges:            mustEnvInt("GRAPH_MAX_EDGES", 15),
		GraphKeywordLimit:        mustEnvInt("GRAPH_PER_KEYWORD_LIMIT", 5),
		GraphQueryTimeoutSeconds: mustEnvInt("GRAPH_QUERY_TIMEOUT_SECONDS", 10),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),

		BreakerEnabled:          mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:      mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:     mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeout:      mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),
		BreakerHalfOpenMaxCalls: mustEnvInt("BREAKER_HALF_OPEN_MAX_CALLS", 2),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
