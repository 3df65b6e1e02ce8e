// Package analyze turns raw query text into a structured query analysis.
package analyze

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nyaya-cloud/nyaya/internal/domain/query"
	"github.com/nyaya-cloud/nyaya/internal/domain/search/filter"
	"github.com/nyaya-cloud/nyaya/internal/normalize"
)

// sectionPattern matches a section number with an optional letter suffix,
// scoped to an explicit "section", "sec." or "s." cue so bare numbers in a
// query do not become filter predicates.
var sectionPattern = regexp.MustCompile(`(?:\bsection|\bsec\.|\bs\.)\s*(\d+(?:-?[a-z]+)?)`)

// actPattern maps a recognition regex to the canonical act name. Each match
// contributes both the human-readable name and its normalized token since
// corpus metadata may store either form.
type actPattern struct {
	re   *regexp.Regexp
	name string
}

var actPatterns = []actPattern{
	{regexp.MustCompile(`\bipc\b|indian penal code`), "Indian Penal Code"},
	{regexp.MustCompile(`\bcrpc\b|criminal procedure code|code of criminal procedure`), "Criminal Procedure Code"},
	{regexp.MustCompile(`\bconstitution\b`), "Constitution of India"},
	{regexp.MustCompile(`\bevidence act\b`), "Evidence Act"},
	{regexp.MustCompile(`\bhindu marriage act\b`), "Hindu Marriage Act"},
}

// intentRules and domainRules are checked in priority order; the first rule
// with a keyword hit wins.
var intentRules = []struct {
	intent   query.Intent
	keywords []string
}{
	{query.IntentExplanation, []string{"what is", "explain", "meaning"}},
	{query.IntentCaseSearch, []string{"similar case", "precedent", "judgment"}},
	{query.IntentProcedural, []string{"procedure", "process", "how to"}},
}

var domainRules = []struct {
	domain   query.Domain
	keywords []string
}{
	{query.DomainCriminal, []string{"murder", "theft", "criminal", "police", "arrest", "bail"}},
	{query.DomainFamily, []string{"marriage", "divorce", "family", "custody"}},
	{query.DomainCivil, []string{"contract", "property", "civil"}},
}

var smartQuoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
)

// Service extracts structured signals from raw query text. All extraction is
// advisory: an unpopulated analysis carries an empty filter spec and general
// intent/domain classes, never an error.
type Service struct {
	logger *zap.Logger
}

// New creates a query analyzer.
func New(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Analyze produces the structured analysis for a raw query. Empty input
// yields an empty analysis with an empty filter.
func (s *Service) Analyze(raw string) query.Analysis {
	processed := cleanQuery(raw)
	if processed == "" {
		return query.NewAnalysis(raw, "", nil, nil, nil,
			query.IntentGeneral, query.DomainGeneral, filter.Empty())
	}

	sections := extractSections(processed)
	actNames, actTokens := extractActs(processed)
	intent := classifyIntent(processed)
	dom := classifyDomain(processed)

	var topics []string
	if dom != query.DomainGeneral {
		topics = []string{string(dom)}
	}
	spec := filter.NewSpec("", topics, sections, actTokens, filter.MatchAll)

	s.logger.Debug("Query analyzed",
		zap.String("intent", string(intent)),
		zap.String("domain", string(dom)),
		zap.Strings("sections", sections),
		zap.Strings("acts", actTokens),
	)

	return query.NewAnalysis(raw, processed, sections, actNames, actTokens, intent, dom, spec)
}

// cleanQuery lowercases, normalizes smart quotes, and collapses whitespace.
func cleanQuery(raw string) string {
	s := smartQuoteReplacer.Replace(raw)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func extractSections(processed string) []string {
	matches := sectionPattern.FindAllStringSubmatch(processed, -1)
	if len(matches) == 0 {
		return nil
	}
	raw := make([]string, 0, len(matches))
	for _, m := range matches {
		raw = append(raw, m[1])
	}
	return normalize.Sections(raw)
}

func extractActs(processed string) (names, tokens []string) {
	for _, p := range actPatterns {
		if p.re.MatchString(processed) {
			names = append(names, p.name)
			tokens = append(tokens, normalize.Token(p.name))
		}
	}
	return names, tokens
}

func classifyIntent(processed string) query.Intent {
	for _, r := range intentRules {
		for _, kw := range r.keywords {
			if strings.Contains(processed, kw) {
				return r.intent
			}
		}
	}
	return query.IntentGeneral
}

func classifyDomain(processed string) query.Domain {
	for _, r := range domainRules {
		for _, kw := range r.keywords {
			if strings.Contains(processed, kw) {
				return r.domain
			}
		}
	}
	return query.DomainGeneral
}
