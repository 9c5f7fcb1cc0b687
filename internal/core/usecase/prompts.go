package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// The [Title - p.X] tag format is load-bearing: the generator is expected
// to echo these tags as inline citations, and the presentation layer
// parses them back out of the answer.

const denseSystemPrompt = `You are a technical assistant for product documentation.
Answer ONLY from the provided context. If the context does not support the
answer, say "I don't know".
For each factual claim add an inline citation in the format [DocumentName - p.X].`

const parentChildSystemPrompt = `You are a technical assistant for product documentation.
Answer ONLY from the provided context. Add citations [DocumentName - p.X]
for claims. Include code only when the user explicitly asks for an
implementation or example. If a part of the question cannot be answered
from the context, say "I cannot answer this part".`

const routerSystemPrompt = `You are a technical assistant combining documentation search,
knowledge-graph lookups and local analysis results.
Answer ONLY from the tool results below. Add citations [DocumentName - p.X]
where document context is cited. If a part of the question is not covered
by any tool result, say so directly.`

func formatChunkContext(hits []domain.RetrievedChunk) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		tag := fmt.Sprintf("[%s - p.%s]", hit.Chunk.Title, hit.Chunk.Page)
		blocks = append(blocks, tag+"\n"+strings.TrimSpace(hit.Chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}

func formatParentContext(hits []domain.RetrievedParent) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		tag := fmt.Sprintf("[%s - p.%s]", hit.Parent.Title, hit.Parent.PageRange)
		blocks = append(blocks, tag+"\n"+strings.TrimSpace(hit.Parent.Text))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func buildQuestionPrompt(question, context string) string {
	return fmt.Sprintf(`Question: %s

Context:
%s

Answer ONLY from the context above.`, question, context)
}
