package usecase

import (
	"sort"
	"strings"
)

// Known entity names from the documentation corpus, matched before falling
// back to generic token extraction. Multi-word terms must be matched first
// so "magic link" wins over "link".
var graphSearchTerms = []string{
	"sso", "saml", "oidc", "oauth", "jwt", "token", "magic link", "magiclink",
	"passwordless", "authentication", "authorization", "mfa", "2fa",
	"session", "cookie", "refresh", "access", "identity", "provider",
	"frontegg", "user", "login", "logout", "signup", "email", "password",
	"api", "endpoint", "webhook", "tenant", "role", "permission", "scope",
}

var keywordStopWords = map[string]struct{}{
	"what": {}, "how": {}, "the": {}, "and": {}, "for": {}, "with": {},
	"this": {}, "that": {}, "are": {}, "can": {}, "does": {},
}

const maxGraphKeywords = 5

// extractGraphKeywords pulls searchable terms from a question for the
// graph lookup. Deterministic: known terms longest-first, then a fallback
// to plain non-stop-word tokens when nothing from the lexicon matched.
func extractGraphKeywords(question string) []string {
	lowered := strings.ToLower(question)

	terms := make([]string, len(graphSearchTerms))
	copy(terms, graphSearchTerms)
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	found := make([]string, 0, maxGraphKeywords)
	seen := make(map[string]struct{})
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		if strings.Contains(lowered, term) {
			seen[term] = struct{}{}
			found = append(found, term)
		}
	}

	if len(found) == 0 {
		for _, word := range strings.Fields(question) {
			clean := strings.ToLower(strings.Trim(word, "?.,!:;()[]{}\"'-"))
			if len(clean) < 3 {
				continue
			}
			if _, stop := keywordStopWords[clean]; stop {
				continue
			}
			if _, ok := seen[clean]; ok {
				continue
			}
			seen[clean] = struct{}{}
			found = append(found, clean)
		}
	}

	if len(found) > maxGraphKeywords {
		found = found[:maxGraphKeywords]
	}
	return found
}

// extractPasswordCandidate picks the credential to analyze out of a
// question: the first quoted token, else the longest non-stop-word token.
func extractPasswordCandidate(question string) string {
	for _, quote := range []string{"'", "\""} {
		start := strings.Index(question, quote)
		if start < 0 {
			continue
		}
		rest := question[start+1:]
		end := strings.Index(rest, quote)
		if end > 0 {
			return rest[:end]
		}
	}

	longest := ""
	for _, word := range strings.Fields(question) {
		clean := strings.Trim(word, "?.,!:;()[]{}\"'")
		if _, stop := keywordStopWords[strings.ToLower(clean)]; stop {
			continue
		}
		if len(clean) > len(longest) {
			longest = clean
		}
	}
	return longest
}
