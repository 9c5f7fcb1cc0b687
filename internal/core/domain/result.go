package domain

// SourceType tags a SourceRecord variant. The tag set is closed; the
// downstream presentation layer depends on these exact values.
type SourceType string

const (
	SourceChunk            SourceType = "chunk"
	SourceParentChunk      SourceType = "parent_chunk"
	SourceGraph            SourceType = "graph"
	SourceEntropyAnalysis  SourceType = "entropy_analysis"
	SourcePasswordAnalysis SourceType = "password_analysis"
)

// SourceMetadata carries the per-tag payload. Only the fields required by
// the record's tag are populated; the rest stay omitted on the wire.
type SourceMetadata struct {
	Title    string `json:"title,omitempty"`
	Page     string `json:"page,omitempty"`
	ParentID string `json:"parent_id,omitempty"`

	SourceEntity string `json:"source_entity,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	TargetEntity string `json:"target_entity,omitempty"`

	NormalizedComplexity *float64 `json:"normalized_complexity,omitempty"`

	RawBits        *float64 `json:"raw_bits,omitempty"`
	DiversityScore *int     `json:"diversity_score,omitempty"`
}

// SourceRecord is one tagged entry of a result's sources sequence.
type SourceRecord struct {
	Type     SourceType     `json:"type"`
	Content  string         `json:"content"`
	Metadata SourceMetadata `json:"metadata"`
}

// UnifiedResult is the single shape every strategy normalizes into.
type UnifiedResult struct {
	Answer   string         `json:"answer"`
	Sources  []SourceRecord `json:"sources"`
	Metadata map[string]any `json:"metadata"`
}

// DispatchResult is a UnifiedResult stamped with the strategy that
// produced it and its observed wall-clock time.
type DispatchResult struct {
	Method          Method         `json:"method_id"`
	MethodName      string         `json:"method_name"`
	Answer          string         `json:"answer"`
	Sources         []SourceRecord `json:"sources"`
	Metadata        map[string]any `json:"metadata"`
	ExecutionTimeMS float64        `json:"execution_time_ms"`
}

func ChunkSource(hit RetrievedChunk) SourceRecord {
	return SourceRecord{
		Type:    SourceChunk,
		Content: hit.Chunk.Text,
		Metadata: SourceMetadata{
			Title: hit.Chunk.Title,
			Page:  hit.Chunk.Page,
		},
	}
}

func ParentChunkSource(hit RetrievedParent) SourceRecord {
	return SourceRecord{
		Type:    SourceParentChunk,
		Content: hit.Parent.Text,
		Metadata: SourceMetadata{
			Title:    hit.Parent.Title,
			Page:     hit.Parent.PageRange,
			ParentID: hit.Parent.ID,
		},
	}
}

func GraphSource(edge GraphEdge) SourceRecord {
	return SourceRecord{
		Type:    SourceGraph,
		Content: edge.Description,
		Metadata: SourceMetadata{
			SourceEntity: edge.SourceEntity,
			Relationship: edge.RelationshipType,
			TargetEntity: edge.TargetEntity,
		},
	}
}
