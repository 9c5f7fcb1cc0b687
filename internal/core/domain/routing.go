package domain

// Method selects one of the three user-facing strategies. The set is
// closed: adding a strategy is a schema change, not runtime registration.
type Method int

const (
	MethodSimpleVector Method = 1
	MethodParentChild  Method = 2
	MethodToolRouter   Method = 3
)

func (m Method) Valid() bool {
	switch m {
	case MethodSimpleVector, MethodParentChild, MethodToolRouter:
		return true
	default:
		return false
	}
}

func (m Method) Name() string {
	switch m {
	case MethodSimpleVector:
		return "Simple Vector RAG"
	case MethodParentChild:
		return "Parent-Child Chunk Aware RAG"
	case MethodToolRouter:
		return "Agentic RAG"
	default:
		return "unknown"
	}
}

// ToolKind identifies one routable capability. Closed set.
type ToolKind string

const (
	ToolGraphSearch      ToolKind = "graph_search"
	ToolParentChild      ToolKind = "parent_child_search"
	ToolEntropyAnalysis  ToolKind = "query_entropy_analyzer"
	ToolPasswordAnalysis ToolKind = "password_strength_analyzer"
)

// EntropySignal is the per-request routing signal derived from the
// question's character distribution.
type EntropySignal struct {
	NormalizedComplexity float64    `json:"normalized_complexity"`
	RawBits              float64    `json:"raw_bits"`
	CharDiversity        float64    `json:"char_diversity"`
	Complexity           string     `json:"complexity"`
	WordCount            int        `json:"word_count"`
	UniqueWords          int        `json:"unique_words"`
	RecommendedTools     []ToolKind `json:"recommended_tools"`
	Reasoning            string     `json:"reasoning"`
}

// PasswordReport is the credential-strength assessment.
type PasswordReport struct {
	Length          int      `json:"length"`
	RawBits         float64  `json:"raw_bits"`
	DiversityScore  int      `json:"diversity_score"`
	HasLower        bool     `json:"has_lower"`
	HasUpper        bool     `json:"has_upper"`
	HasDigit        bool     `json:"has_digit"`
	HasSymbol       bool     `json:"has_symbol"`
	Strength        string   `json:"strength"`
	Recommendations []string `json:"recommendations"`
}
