package usecase

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kirillkom/rag-answer-engine/internal/core/domain"
)

// EntropyAnalyzer computes character-distribution Shannon entropy for two
// unrelated purposes sharing one primitive: query-complexity scoring for
// tool routing, and credential-strength scoring. Purely local, O(n), no
// I/O, no hidden randomness.
type EntropyAnalyzer struct{}

func NewEntropyAnalyzer() *EntropyAnalyzer {
	return &EntropyAnalyzer{}
}

const (
	complexitySimpleBelow = 0.5
	complexityMediumBelow = 0.7

	multiToolEntropyAbove   = 0.7
	multiToolUniqueWordsMin = 9

	passwordMinLength = 12
)

// shannonEntropy returns H = -sum p(c)*log2(p(c)) over the character
// frequency distribution of s, in bits per character.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// AnalyzeQuery scores a question's structural complexity and recommends a
// tool set. Same question always yields the same signal.
func (a *EntropyAnalyzer) AnalyzeQuery(question string) domain.EntropySignal {
	lowered := strings.ToLower(question)

	entropy := shannonEntropy(lowered)
	distinct := distinctRunes(lowered)
	normalized := 0.0
	if distinct > 1 {
		normalized = entropy / math.Log2(float64(distinct))
	}

	total := len([]rune(lowered))
	diversity := 0.0
	if total > 0 {
		diversity = float64(distinct) / float64(total)
	}

	words := strings.Fields(lowered)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	complexity := "complex"
	switch {
	case normalized < complexitySimpleBelow:
		complexity = "simple"
	case normalized < complexityMediumBelow:
		complexity = "medium"
	}

	tools, reasoning := recommendTools(lowered, normalized, len(unique))

	return domain.EntropySignal{
		NormalizedComplexity: normalized,
		RawBits:              entropy * float64(total),
		CharDiversity:        diversity,
		Complexity:           complexity,
		WordCount:            len(words),
		UniqueWords:          len(unique),
		RecommendedTools:     tools,
		Reasoning:            reasoning,
	}
}

var (
	graphKeywords = []string{
		"relate", "connect", "relationship", "protocol",
		"uses", "includes", "affects", "how", "what",
	}
	credentialKeywords = []string{
		"password", "secure", "strength", "credential",
	}
	detailKeywords = []string{
		"implement", "configure", "setup", "example", "code",
		"steps", "complete", "detailed", "full",
	}
)

func containsAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// recommendTools is the deterministic, rule-based routing policy. The
// input must already be lowercased.
func recommendTools(lowered string, normalized float64, uniqueWords int) ([]domain.ToolKind, string) {
	tools := make([]domain.ToolKind, 0, 4)
	reasons := make([]string, 0, 4)
	have := make(map[domain.ToolKind]struct{})
	add := func(tool domain.ToolKind) {
		if _, ok := have[tool]; ok {
			return
		}
		have[tool] = struct{}{}
		tools = append(tools, tool)
	}

	if containsAny(lowered, graphKeywords) {
		add(domain.ToolGraphSearch)
		reasons = append(reasons, "graph keywords detected")
	}
	if containsAny(lowered, credentialKeywords) {
		add(domain.ToolPasswordAnalysis)
		reasons = append(reasons, "credential keywords detected")
	}
	if containsAny(lowered, detailKeywords) {
		add(domain.ToolParentChild)
		reasons = append(reasons, "detail keywords detected")
	}
	if normalized > multiToolEntropyAbove && uniqueWords >= multiToolUniqueWordsMin {
		add(domain.ToolGraphSearch)
		add(domain.ToolParentChild)
		reasons = append(reasons, fmt.Sprintf("high complexity (entropy=%.2f, unique_words=%d)", normalized, uniqueWords))
	}
	if len(tools) == 0 {
		add(domain.ToolParentChild)
		reasons = append(reasons, "default to parent-child for general questions")
	}

	return tools, strings.Join(reasons, "; ")
}

// AnalyzePassword rates credential strength from raw entropy bits and
// character-class diversity. Case-sensitive: entropy is computed over the
// password as given.
func (a *EntropyAnalyzer) AnalyzePassword(password string) domain.PasswordReport {
	length := len([]rune(password))
	rawBits := shannonEntropy(password) * float64(length)

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	diversity := 0
	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if present {
			diversity++
		}
	}

	return domain.PasswordReport{
		Length:          length,
		RawBits:         rawBits,
		DiversityScore:  diversity,
		HasLower:        hasLower,
		HasUpper:        hasUpper,
		HasDigit:        hasDigit,
		HasSymbol:       hasSymbol,
		Strength:        strengthRating(rawBits, diversity),
		Recommendations: passwordRecommendations(length, hasLower, hasUpper, hasDigit, hasSymbol),
	}
}

// strengthRating is a monotonic step function of (rawBits, diversity):
// raising either never lowers the rating.
func strengthRating(rawBits float64, diversity int) string {
	switch {
	case rawBits < 28 || diversity <= 1:
		return "weak"
	case rawBits < 36 || diversity <= 2:
		return "fair"
	case rawBits < 60 || diversity <= 3:
		return "medium"
	case rawBits < 80:
		return "strong"
	default:
		return "very_strong"
	}
}

func passwordRecommendations(length int, hasLower, hasUpper, hasDigit, hasSymbol bool) []string {
	recs := make([]string, 0, 5)
	if length < passwordMinLength {
		recs = append(recs, fmt.Sprintf("Increase length (current: %d, recommended: %d+)", length, passwordMinLength))
	}
	if !hasUpper {
		recs = append(recs, "Add uppercase letters (A-Z)")
	}
	if !hasLower {
		recs = append(recs, "Add lowercase letters (a-z)")
	}
	if !hasDigit {
		recs = append(recs, "Add numbers (0-9)")
	}
	if !hasSymbol {
		recs = append(recs, "Add symbols (!@#$%^&*)")
	}
	if len(recs) == 0 {
		recs = append(recs, "Password meets all security criteria!")
	}
	return recs
}
