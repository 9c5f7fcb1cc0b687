package flatindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// Index is an immutable in-memory similarity index loaded once from a
// pre-built artifact. All reads are lock-free: nothing mutates after Load.
type Index struct {
	chunks  []domain.ChildChunk
	vectors [][]float32
	dim     int
}

type artifact struct {
	Dimension int `json:"dimension"`
	Chunks    []struct {
		ID     string    `json:"id"`
		Text   string    `json:"text"`
		Title  string    `json:"title"`
		Page   string    `json:"page"`
		Vector []float32 `json:"vector"`
	} `json:"chunks"`
}

// Load reads the index artifact. Any failure here is fatal at startup:
// the process must not serve traffic without its index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "load index", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "parse index", err)
	}

	idx := &Index{
		chunks:  make([]domain.ChildChunk, 0, len(art.Chunks)),
		vectors: make([][]float32, 0, len(art.Chunks)),
		dim:     art.Dimension,
	}
	for _, c := range art.Chunks {
		if art.Dimension > 0 && len(c.Vector) != art.Dimension {
			return nil, domain.WrapError(domain.ErrIndexUnavailable, "parse index",
				fmt.Errorf("chunk %s vector size %d, want %d", c.ID, len(c.Vector), art.Dimension))
		}
		idx.chunks = append(idx.chunks, domain.ChildChunk{ID: c.ID, Text: c.Text, Title: c.Title, Page: c.Page})
		idx.vectors = append(idx.vectors, c.Vector)
	}
	if len(idx.chunks) == 0 {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "load index", fmt.Errorf("artifact %s holds no chunks", path))
	}
	return idx, nil
}

// NewFromChunks builds an index directly from chunks and vectors. Used by
// tests and tooling; production indexes come from Load.
func NewFromChunks(chunks []domain.ChildChunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks/vectors mismatch: %d vs %d", len(chunks), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return &Index{chunks: chunks, vectors: vectors, dim: dim}, nil
}

func (idx *Index) Size() int { return len(idx.chunks) }

type scoredRef struct {
	pos   int
	score float64
}

// rankAll scores every chunk against the query vector, descending score,
// ties broken by original artifact order.
func (idx *Index) rankAll(queryVector []float32) []scoredRef {
	ranked := make([]scoredRef, len(idx.vectors))
	for i, v := range idx.vectors {
		ranked[i] = scoredRef{pos: i, score: cosineSimilarity(queryVector, v)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func (idx *Index) Search(_ context.Context, queryVector []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = 6
	}
	ranked := idx.rankAll(queryVector)
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]domain.RetrievedChunk, 0, len(ranked))
	for _, ref := range ranked {
		out = append(out, domain.RetrievedChunk{Chunk: idx.chunks[ref.pos], Score: ref.score})
	}
	return out, nil
}

// SearchMMR ranks fetchK candidates by similarity, then greedily selects k
// results maximizing lambda*sim(query,c) - (1-lambda)*max sim(c, chosen).
func (idx *Index) SearchMMR(_ context.Context, queryVector []float32, k, fetchK int, lambda float64) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = 6
	}
	if fetchK < k {
		fetchK = k
	}
	if lambda <= 0 || lambda > 1 {
		lambda = 0.5
	}

	candidates := idx.rankAll(queryVector)
	if len(candidates) > fetchK {
		candidates = candidates[:fetchK]
	}

	selected := make([]scoredRef, 0, k)
	remaining := append([]scoredRef(nil), candidates...)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				sim := cosineSimilarity(idx.vectors[cand.pos], idx.vectors[sel.pos])
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*cand.score - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	out := make([]domain.RetrievedChunk, 0, len(selected))
	for _, ref := range selected {
		out = append(out, domain.RetrievedChunk{Chunk: idx.chunks[ref.pos], Score: ref.score})
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
