package schema

import "strings"

// Forbidden field segments. Extraction output is never trusted with these: the
// normalizer drops them unconditionally and they are excluded from
// missing_fields because they are intentionally absent, not missing.
//
// Matching is by path segment so nested variants ("personal.sin",
// "banking.bank_account_number") are caught without enumerating every spelling
// a backend might invent around them.
var forbiddenSegments = map[string]struct{}{
	"sin":                     {},
	"social_insurance_number": {},
	"bank_account":            {},
	"bank_accounts":           {},
	"bank_account_number":     {},
	"banking":                 {},
}

// IsForbiddenPath reports whether a dotted field path touches sensitive data
// that must never be populated by automated extraction.
func IsForbiddenPath(path string) bool {
	for _, segment := range strings.Split(strings.ToLower(path), ".") {
		if _, ok := forbiddenSegments[segment]; ok {
			return true
		}
	}
	return false
}

// ForbiddenSegments returns the sensitive path segments, for documentation and
// tests. The returned slice is a copy.
func ForbiddenSegments() []string {
	out := make([]string, 0, len(forbiddenSegments))
	for s := range forbiddenSegments {
		out = append(out, s)
	}
	return out
}

// FieldPaths lists every extractable scalar field in canonical order. The
// normalizer walks this order, so missing_fields come out deterministic.
// Derived sections (exemption_status) and bookkeeping (confidence_scores,
// missing_fields, follow_up_questions) are not extraction fields and are not
// listed.
var FieldPaths = []string{
	"client_name.first",
	"client_name.middle",
	"client_name.last",
	"spouse_name.first",
	"spouse_name.last",
	"address.street",
	"address.unit",
	"address.city",
	"address.province",
	"address.postal_code",
	"contact.phone",
	"contact.cell",
	"contact.email",
	"personal.dob",
	"personal.citizenship",
	"personal.dependents",
	"personal.marital_status",
	"employment.occupation",
	"employment.employer",
	"employment.years_employed",
	"employment.is_self_employed",
	"spouse_employment.occupation",
	"spouse_employment.employer",
	"financials.annual_income",
	"financials.spouse_income",
	"financials.other_income",
	"financials.total_income",
	"financials.net_financial_assets",
	"financials.non_financial_assets",
	"financials.total_assets",
	"financials.liabilities",
	"financials.net_worth",
	"financials.income_stable_2_years",
	"financials.borrowed_to_invest",
	"asset_composition.cash_pct",
	"asset_composition.stocks_pct",
	"asset_composition.bonds_pct",
	"asset_composition.real_estate_pct",
	"asset_composition.other_pct",
	"investment_profile.knowledge_level",
	"investment_profile.risk_tolerance",
	"investment_profile.risk_capacity",
	"investment_profile.time_horizon",
	"investment_profile.investment_objective",
	"investment_profile.planned_retirement_year",
	"investment_profile.products_owned",
	"investment_details.issuer",
	"investment_details.amount",
	"investment_details.source_of_funds",
	"aml.is_pep",
	"aml.pep_position",
	"aml.is_hio",
}
