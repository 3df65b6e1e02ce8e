// Package query holds the structured analysis produced from a raw query.
package query

import "github.com/nyaya-cloud/nyaya/internal/domain/search/filter"

// Intent classifies what the user is asking for.
type Intent string

const (
	IntentExplanation Intent = "explanation"
	IntentCaseSearch  Intent = "case_search"
	IntentProcedural  Intent = "procedural"
	IntentGeneral     Intent = "general"
)

// Domain classifies the topical legal domain of a query.
type Domain string

const (
	DomainCriminal Domain = "criminal"
	DomainFamily   Domain = "family"
	DomainCivil    Domain = "civil"
	DomainGeneral  Domain = "general"
)

// Analysis is the structured result of analyzing a raw query. It is
// advisory: downstream consumers degrade to an empty filter when the
// analysis found nothing to filter on.
type Analysis struct {
	original  string
	processed string
	sections  []string
	actNames  []string
	actTokens []string
	intent    Intent
	domain    Domain
	filter    filter.Spec
}

// NewAnalysis creates a query analysis.
func NewAnalysis(
	original, processed string,
	sections, actNames, actTokens []string,
	intent Intent, domain Domain,
	spec filter.Spec,
) Analysis {
	return Analysis{
		original: original, processed: processed,
		sections: sections, actNames: actNames, actTokens: actTokens,
		intent: intent, domain: domain, filter: spec,
	}
}

// Original returns the query as received.
func (a Analysis) Original() string { return a.original }

// Processed returns the cleaned, lowercased query text.
func (a Analysis) Processed() string { return a.processed }

// Sections returns the normalized section references found in the query.
func (a Analysis) Sections() []string { return a.sections }

// ActNames returns the human-readable act names found in the query.
func (a Analysis) ActNames() []string { return a.actNames }

// ActTokens returns the normalized act tokens found in the query.
func (a Analysis) ActTokens() []string { return a.actTokens }

// Intent returns the query intent class.
func (a Analysis) Intent() Intent { return a.intent }

// Domain returns the topical legal domain.
func (a Analysis) Domain() Domain { return a.domain }

// Filter returns the filter spec built from the extracted signals.
func (a Analysis) Filter() filter.Spec { return a.filter }
