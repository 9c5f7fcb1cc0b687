package domain

// ChildChunk is a small retrieval unit owned by the dense child index.
// Chunks are immutable once loaded.
type ChildChunk struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Title string `json:"title"`
	Page  string `json:"page"`
}

// ParentChunk is the larger context unit owned by the parent store. Its
// text is a superset of each of its children's text by construction of the
// pre-built store; that property is assumed, not enforced here.
type ParentChunk struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Title     string `json:"title"`
	PageRange string `json:"page_range"`
}

// RetrievedChunk is one ranked hit from the dense index.
type RetrievedChunk struct {
	Chunk ChildChunk `json:"chunk"`
	Score float64    `json:"score"`
}

// RetrievedParent is one deduplicated parent-tier hit. Score carries the
// best child score that resolved to this parent.
type RetrievedParent struct {
	Parent ParentChunk `json:"parent"`
	Score  float64     `json:"score"`
}

// ParentRetrieval is the two-tier retrieval output: ordered deduplicated
// parents plus any data-integrity warnings collected on the way.
type ParentRetrieval struct {
	Parents  []RetrievedParent
	Warnings []string
}

// GraphEdge is one directed, typed relationship from the graph store.
type GraphEdge struct {
	SourceEntity     string `json:"source_entity"`
	RelationshipType string `json:"relationship"`
	TargetEntity     string `json:"target_entity"`
	Description      string `json:"description"`
}

// TripleKey identifies an edge for deduplication across keyword matches.
func (e GraphEdge) TripleKey() string {
	return e.SourceEntity + "\x00" + e.RelationshipType + "\x00" + e.TargetEntity
}
