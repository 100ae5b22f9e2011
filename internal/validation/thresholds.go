package validation

import "skyvault/internal/schema"

// NI 45-106 dollar thresholds.
const (
	AccreditedIncomeSingle = 200_000
	AccreditedIncomeJoint  = 300_000
	AccreditedNFA          = 1_000_000
	AccreditedNetAssets    = 5_000_000

	EligibleIncomeSingle = 75_000
	EligibleIncomeJoint  = 125_000
	EligibleNetAssets    = 400_000

	// ConcentrationLimit is the share of net financial assets a single
	// disclosed holding may represent before it is flagged.
	ConcentrationLimit = 0.10

	// AgeConcernThreshold is the age at or above which a HIGH risk tolerance
	// with a short horizon raises a red flag.
	AgeConcernThreshold = 65
)

// requiredFields lists the fields a completed filing needs per form type.
// Absences beyond three trigger a human follow-up.
var requiredFields = map[schema.FormType][]string{
	schema.FormIndividual: {
		"client_name.first",
		"client_name.last",
		"address.city",
		"address.province",
		"contact.email",
		"personal.dob",
		"employment.occupation",
		"financials.annual_income",
		"financials.net_financial_assets",
		"investment_profile.risk_tolerance",
		"investment_profile.time_horizon",
		"investment_profile.investment_objective",
	},
	schema.FormCorporate: {
		"client_name.first",
		"client_name.last",
		"contact.email",
		"employment.employer",
		"financials.annual_income",
		"financials.total_assets",
	},
	schema.FormTradeSuitability: {
		"client_name.first",
		"client_name.last",
		"investment_details.issuer",
		"investment_details.amount",
		"investment_details.source_of_funds",
	},
}
