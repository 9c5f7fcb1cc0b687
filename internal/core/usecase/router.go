package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
	"github.com/kirillkom/rag-answer-engine/internal/core/ports"
)

type RouterMode string

const (
	// RouterModeSimplified bypasses multi-tool reasoning and delegates to
	// the two-tier retriever. Default operating mode.
	RouterModeSimplified RouterMode = "simplified"
	// RouterModeFull runs the tool-selection state machine.
	RouterModeFull RouterMode = "full"
)

type RouterOptions struct {
	Mode                 RouterMode
	GraphMaxEdges        int
	GraphPerKeywordLimit int
}

func (o RouterOptions) normalize() RouterOptions {
	if o.Mode != RouterModeFull {
		o.Mode = RouterModeSimplified
	}
	if o.GraphMaxEdges <= 0 {
		o.GraphMaxEdges = 15
	}
	if o.GraphPerKeywordLimit <= 0 {
		o.GraphPerKeywordLimit = 5
	}
	return o
}

// ToolRouterUseCase composes graph lookup, two-tier retrieval and the
// local analyzers into one answer. Tools execute independently; a failure
// in one degrades the result instead of aborting it, and only a wholesale
// failure of every selected tool fails the request.
type ToolRouterUseCase struct {
	parentChild *ParentChildUseCase
	graph       ports.GraphStore
	entropy     *EntropyAnalyzer
	generator   ports.AnswerGenerator
	opts        RouterOptions
}

func NewToolRouterUseCase(
	parentChild *ParentChildUseCase,
	graph ports.GraphStore,
	entropy *EntropyAnalyzer,
	generator ports.AnswerGenerator,
	opts RouterOptions,
) *ToolRouterUseCase {
	return &ToolRouterUseCase{
		parentChild: parentChild,
		graph:       graph,
		entropy:     entropy,
		generator:   generator,
		opts:        opts.normalize(),
	}
}

func (uc *ToolRouterUseCase) Query(ctx context.Context, question string) (*domain.UnifiedResult, error) {
	if uc.opts.Mode == RouterModeSimplified {
		result, err := uc.parentChild.Query(ctx, question)
		if err != nil {
			return nil, err
		}
		result.Metadata["router_mode"] = string(RouterModeSimplified)
		return result, nil
	}
	return uc.queryFull(ctx, question)
}

// toolOutcome is one executed tool's contribution to the combined result.
type toolOutcome struct {
	sources []domain.SourceRecord
	context string
	err     error
}

func (uc *ToolRouterUseCase) queryFull(ctx context.Context, question string) (*domain.UnifiedResult, error) {
	signal := uc.entropy.AnalyzeQuery(question)

	selected := make([]domain.ToolKind, 0, len(signal.RecommendedTools)+1)
	selected = append(selected, signal.RecommendedTools...)
	// The signal is computed for routing either way; surface it as a
	// source so the caller sees why the tools were picked.
	selected = append(selected, domain.ToolEntropyAnalysis)

	outcomes := uc.executeTools(ctx, question, signal, selected)

	sources := make([]domain.SourceRecord, 0, 8)
	contexts := make([]string, 0, len(outcomes))
	failures := map[string]string{}
	// Fixed canonical combining order, independent of execution timing.
	for _, tool := range []domain.ToolKind{
		domain.ToolGraphSearch,
		domain.ToolParentChild,
		domain.ToolEntropyAnalysis,
		domain.ToolPasswordAnalysis,
	} {
		outcome, ok := outcomes[tool]
		if !ok {
			continue
		}
		if outcome.err != nil {
			failures[string(tool)] = outcome.err.Error()
			continue
		}
		sources = append(sources, outcome.sources...)
		if outcome.context != "" {
			contexts = append(contexts, outcome.context)
		}
	}

	// Failed is reached only when every selected tool failed. The entropy
	// signal is itself a selected tool and always succeeds locally, so an
	// outage of the external tools degrades to a partial result.
	if len(outcomes) > 0 && len(failures) == len(outcomes) {
		return nil, domain.WrapError(domain.ErrAllToolsFailed, "route question", fmt.Errorf("%d tools failed", len(failures)))
	}

	answer, err := uc.generator.Generate(ctx, routerSystemPrompt, buildQuestionPrompt(question, strings.Join(contexts, "\n\n---\n\n")))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "route question", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, domain.WrapError(domain.ErrGenerationFailure, "route question", fmt.Errorf("empty generation result"))
	}

	selectedNames := make([]string, 0, len(selected))
	for _, tool := range selected {
		selectedNames = append(selectedNames, string(tool))
	}
	metadata := map[string]any{
		"router_mode":       string(RouterModeFull),
		"selected_tools":    selectedNames,
		"entropy":           signal.NormalizedComplexity,
		"complexity":        signal.Complexity,
		"routing_reasoning": signal.Reasoning,
	}
	if len(failures) > 0 {
		metadata["tool_failures"] = failures
		metadata["partial"] = true
	}

	return &domain.UnifiedResult{
		Answer:   answer,
		Sources:  sources,
		Metadata: metadata,
	}, nil
}

// executeTools runs the selected tools. The external ones (graph, parent
// retrieval) overlap; the local analyzers are synchronous and cheap.
func (uc *ToolRouterUseCase) executeTools(
	ctx context.Context,
	question string,
	signal domain.EntropySignal,
	selected []domain.ToolKind,
) map[domain.ToolKind]*toolOutcome {
	outcomes := make(map[domain.ToolKind]*toolOutcome, len(selected))
	var wg sync.WaitGroup

	for _, tool := range selected {
		switch tool {
		case domain.ToolGraphSearch:
			outcome := &toolOutcome{}
			outcomes[tool] = outcome
			wg.Add(1)
			go func() {
				defer wg.Done()
				*outcome = uc.runGraphSearch(ctx, question)
			}()
		case domain.ToolParentChild:
			outcome := &toolOutcome{}
			outcomes[tool] = outcome
			wg.Add(1)
			go func() {
				defer wg.Done()
				*outcome = uc.runParentSearch(ctx, question)
			}()
		case domain.ToolEntropyAnalysis:
			outcomes[tool] = entropyOutcome(signal)
		case domain.ToolPasswordAnalysis:
			outcomes[tool] = uc.passwordOutcome(question)
		}
	}

	wg.Wait()
	return outcomes
}

func (uc *ToolRouterUseCase) runGraphSearch(ctx context.Context, question string) toolOutcome {
	keywords := extractGraphKeywords(question)
	if len(keywords) == 0 {
		return toolOutcome{}
	}

	edges := make([]domain.GraphEdge, 0, uc.opts.GraphMaxEdges)
	seen := make(map[string]struct{})
	var degraded error
	for _, keyword := range keywords {
		found, err := uc.graph.RelationshipsByKeyword(ctx, keyword, uc.opts.GraphPerKeywordLimit)
		if err != nil {
			// Keyword queries are independent; one failing does not void
			// edges already found for the others.
			slog.Warn("graph_search_degraded", "keyword", keyword, "error", err)
			degraded = err
			continue
		}
		for _, edge := range found {
			key := edge.TripleKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, edge)
			if len(edges) >= uc.opts.GraphMaxEdges {
				break
			}
		}
		if len(edges) >= uc.opts.GraphMaxEdges {
			break
		}
	}
	if len(edges) == 0 && degraded != nil {
		return toolOutcome{err: degraded}
	}

	sources := make([]domain.SourceRecord, 0, len(edges))
	lines := make([]string, 0, len(edges))
	for _, edge := range edges {
		sources = append(sources, domain.GraphSource(edge))
		lines = append(lines, edge.Description)
	}

	contextBlock := ""
	if len(lines) > 0 {
		contextBlock = fmt.Sprintf("Knowledge graph relationships (searched: %s):\n%s",
			strings.Join(keywords, ", "), strings.Join(lines, "\n"))
	}
	return toolOutcome{sources: sources, context: contextBlock}
}

func (uc *ToolRouterUseCase) runParentSearch(ctx context.Context, question string) toolOutcome {
	retrieval, err := uc.parentChild.Retrieve(ctx, question)
	if err != nil {
		return toolOutcome{err: err}
	}
	sources := make([]domain.SourceRecord, 0, len(retrieval.Parents))
	for _, hit := range retrieval.Parents {
		sources = append(sources, domain.ParentChunkSource(hit))
	}
	return toolOutcome{sources: sources, context: formatParentContext(retrieval.Parents)}
}

func entropyOutcome(signal domain.EntropySignal) *toolOutcome {
	normalized := signal.NormalizedComplexity
	content := fmt.Sprintf(
		"Query entropy analysis: complexity=%s, normalized entropy=%.3f, char diversity=%.3f, words=%d, unique words=%d. Recommended tools: %s",
		signal.Complexity, signal.NormalizedComplexity, signal.CharDiversity,
		signal.WordCount, signal.UniqueWords, signal.Reasoning,
	)
	return &toolOutcome{
		sources: []domain.SourceRecord{{
			Type:    domain.SourceEntropyAnalysis,
			Content: content,
			Metadata: domain.SourceMetadata{
				NormalizedComplexity: &normalized,
			},
		}},
		context: content,
	}
}

func (uc *ToolRouterUseCase) passwordOutcome(question string) *toolOutcome {
	candidate := extractPasswordCandidate(question)
	if candidate == "" {
		return &toolOutcome{err: fmt.Errorf("no password candidate in question")}
	}
	report := uc.entropy.AnalyzePassword(candidate)
	rawBits := report.RawBits
	diversity := report.DiversityScore
	content := fmt.Sprintf(
		"Password strength: %s (%.1f bits of entropy, %d/4 character classes, %d chars). Recommendations: %s",
		report.Strength, report.RawBits, report.DiversityScore, report.Length,
		strings.Join(report.Recommendations, "; "),
	)
	return &toolOutcome{
		sources: []domain.SourceRecord{{
			Type:    domain.SourcePasswordAnalysis,
			Content: content,
			Metadata: domain.SourceMetadata{
				RawBits:        &rawBits,
				DiversityScore: &diversity,
			},
		}},
		context: content,
	}
}
