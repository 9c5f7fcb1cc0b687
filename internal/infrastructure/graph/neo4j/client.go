package neo4j

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/infrastructure/resilience"
)

// Client queries the external knowledge graph for entity relationships.
// The driver is created lazily on the first call and shared across
// concurrent requests; creation is guarded against double initialization.
type Client struct {
	uri      string
	username string
	password string
	database string
	timeout  time.Duration
	guard    *resilience.Guard

	mu     sync.Mutex
	driver neo4j.DriverWithContext
}

type Config struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

func New(cfg Config, guard *resilience.Guard) *Client {
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		uri:      cfg.URI,
		username: cfg.Username,
		password: cfg.Password,
		database: cfg.Database,
		timeout:  cfg.Timeout,
		guard:    guard,
	}
}

// relationshipQuery matches entities whose name contains the keyword on
// either end of a directed relationship.
const relationshipQuery = `
MATCH (n)-[r]->(m)
WHERE toLower(n.name) CONTAINS toLower($term)
   OR toLower(m.name) CONTAINS toLower($term)
RETURN DISTINCT n.name AS source, type(r) AS relationship, m.name AS target
LIMIT $limit`

func (c *Client) RelationshipsByKeyword(ctx context.Context, keyword string, limit int) ([]domain.GraphEdge, error) {
	if limit <= 0 {
		limit = 5
	}

	var edges []domain.GraphEdge
	err := c.guard.Execute(ctx, "graph_search", func(ctx context.Context) error {
		driver, err := c.ensureDriver(ctx)
		if err != nil {
			return err
		}

		queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		result, err := neo4j.ExecuteQuery(queryCtx, driver, relationshipQuery,
			map[string]any{"term": keyword, "limit": limit},
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(c.database),
			neo4j.ExecuteQueryWithReadersRouting(),
		)
		if err != nil {
			return fmt.Errorf("execute graph query: %w", err)
		}

		edges = make([]domain.GraphEdge, 0, len(result.Records))
		for _, record := range result.Records {
			source := stringValue(record, "source")
			relationship := stringValue(record, "relationship")
			target := stringValue(record, "target")
			if source == "" || relationship == "" || target == "" {
				continue
			}
			edges = append(edges, domain.GraphEdge{
				SourceEntity:     source,
				RelationshipType: relationship,
				TargetEntity:     target,
				Description:      fmt.Sprintf("%s -[%s]-> %s", source, relationship, target),
			})
		}
		return nil
	}, recordGraphFailure)
	if err != nil {
		return nil, wrapUnavailable("graph search", err)
	}
	return edges, nil
}

// ensureDriver creates and verifies the driver once; later callers reuse
// it. A failed verification leaves the client unconnected so the next
// request retries the handshake.
func (c *Client) ensureDriver(ctx context.Context) (neo4j.DriverWithContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driver != nil {
		return c.driver, nil
	}

	driver, err := neo4j.NewDriverWithContext(c.uri, neo4j.BasicAuth(c.username, c.password, ""))
	if err != nil {
		return nil, fmt.Errorf("create graph driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	c.driver = driver
	return driver, nil
}

func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driver == nil {
		return nil
	}
	err := c.driver.Close(ctx)
	c.driver = nil
	return err
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
